package game

// Faction identifies one of the six playable factions. Using a dedicated
// type instead of plain string makes code safer and self-documenting.
type Faction string

const (
	FactionAtreides     Faction = "atreides"
	FactionHarkonnen    Faction = "harkonnen"
	FactionFremen       Faction = "fremen"
	FactionEmperor      Faction = "emperor"
	FactionGuild        Faction = "guild"
	FactionBeneGesserit Faction = "bene_gesserit"
)

// AllFactions lists every playable faction in seating order.
var AllFactions = []Faction{
	FactionAtreides,
	FactionHarkonnen,
	FactionFremen,
	FactionEmperor,
	FactionGuild,
	FactionBeneGesserit,
}

func (f Faction) Valid() bool {
	for _, v := range AllFactions {
		if f == v {
			return true
		}
	}
	return false
}
