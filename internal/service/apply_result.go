package service

import (
	"github.com/arrakeen/dune-battles/internal/constants"
	"github.com/arrakeen/dune-battles/internal/game"
	"github.com/arrakeen/dune-battles/internal/logging"
)

// ApplyResult mutates the game from a resolved battle. The engine is pure
// and never touches persisted state; everything that changes a row goes
// through here: force removal, card movement, spice transfer and leader
// relocation. The caller persists the game afterwards.
func ApplyResult(g *game.Game, res *game.BattleResult) {
	for _, side := range []*game.BattleSideResult{&res.Aggressor, &res.Defender} {
		p := g.PlayerByFaction(side.Faction)
		if p == nil {
			logging.Error("battle result references missing faction", nil, logging.Fields{constants.LogFieldFaction: side.Faction})
			continue
		}

		removeForces(g, side.Faction, res.Territory, side.ForcesLost)
		p.ForcesLostTotal += side.ForcesLost

		for _, id := range side.CardsToDiscard {
			p.Hand = removeOne(p.Hand, id)
		}

		if side.LeaderID != "" {
			for i := range p.Leaders {
				if p.Leaders[i].LeaderID != side.LeaderID {
					continue
				}
				if side.LeaderKilled {
					p.Leaders[i].Location = game.LeaderTankFaceUp
					p.Leaders[i].FoughtIn = ""
				} else {
					p.Leaders[i].Location = game.LeaderOnBoard
					p.Leaders[i].FoughtIn = res.Territory
				}
				break
			}
		}

		if side.UsedKwisatzHaderach {
			p.KwisatzHaderachUsedIn = res.Territory
		}

		// Dialed spice is spent only when the battle came down to strength
		// totals. Traitor reveals and the explosion pre-empt the dial.
		if !res.TraitorRevealed && !res.LasgunShieldExplosion && side.SpiceDialed > 0 {
			p.Spice -= side.SpiceDialed
			if p.Spice < 0 {
				p.Spice = 0
			}
		}

		p.HasSubmittedPlan = false
		p.PendingPlan = nil
	}

	for _, payout := range res.SpicePayouts {
		if p := g.PlayerByFaction(payout.Faction); p != nil {
			p.Spice += payout.Amount
		}
	}

	g.LastBattleSummary = res.Summary
}

// removeForces takes n forces of one faction out of a territory, elites
// first, matching the dial policy. Advisors are never touched.
func removeForces(g *game.Game, f game.Faction, territory string, n int) {
	for i := range g.Stacks {
		s := &g.Stacks[i]
		if n <= 0 {
			return
		}
		if s.Faction != f || s.Territory != territory {
			continue
		}
		take := s.Elite
		if take > n {
			take = n
		}
		s.Elite -= take
		n -= take

		take = s.Regular
		if take > n {
			take = n
		}
		s.Regular -= take
		n -= take
	}
}

func removeOne(hand []string, id string) []string {
	for i, h := range hand {
		if h == id {
			return append(hand[:i], hand[i+1:]...)
		}
	}
	return hand
}
