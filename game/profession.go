package game

// Profession is a player's career card; the value doubles as the card image name.
type Profession string

const (
	Dentist                         Profession = "dentist"
	FigureSkatingCoach              Profession = "figure_skating_coach"
	Architect                       Profession = "architect"
	Accountant                      Profession = "accountant"
	FurnitureProductionTechnologist Profession = "furniture_technologist"
	Lawyer                          Profession = "lawyer"
	Coach                           Profession = "coach"
	Realtor                         Profession = "realtor"
	HeadIT                          Profession = "head_it"
	Artist                          Profession = "artist"
	Astrologer                      Profession = "astrologer"
	Firefighter                     Profession = "firefighter"
)

var professions = []Profession{
	Dentist, FigureSkatingCoach, Architect, Accountant, FurnitureProductionTechnologist, Lawyer,
	Coach, Realtor, HeadIT, Artist, Astrologer, Firefighter,
}

var professionDescriptions = map[Profession]string{
	Dentist:                         "Dentist",
	FigureSkatingCoach:              "Figure skating coach",
	Architect:                       "Architect",
	Accountant:                      "Accountant",
	FurnitureProductionTechnologist: "Chief furniture production technologist",
	Lawyer:                          "Lawyer",
	Coach:                           "Coach",
	Realtor:                         "Realtor",
	HeadIT:                          "Head of IT",
	Artist:                          "Artist",
	Astrologer:                      "Astrologer",
	Firefighter:                     "Firefighter",
}

// AllProfessions returns the profession set in its canonical order.
func AllProfessions() []Profession {
	return append([]Profession(nil), professions...)
}

// Description returns the human readable profession name.
func (p Profession) Description() string {
	if d, ok := professionDescriptions[p]; ok {
		return d
	}
	return string(p)
}
