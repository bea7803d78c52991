package valuation

import "github.com/mamadbah2/stockyard/internal/domain/models"

// speciesProfile holds the per-species constants the orchestrator feeds the
// breeding accrual: gestation cycle length and the share of the mother's
// live weight an offspring is valued at when it hits the ground.
type speciesProfile struct {
	GestationDays        int
	OffspringWeightShare float64
}

var speciesProfiles = map[models.Species]speciesProfile{
	models.SpeciesCattle: {GestationDays: 283, OffspringWeightShare: 0.25},
	models.SpeciesSheep:  {GestationDays: 150, OffspringWeightShare: 0.30},
	models.SpeciesGoat:   {GestationDays: 150, OffspringWeightShare: 0.30},
	models.SpeciesPig:    {GestationDays: 115, OffspringWeightShare: 0.20},
}

// profileFor returns the species constants. The species is normalized the
// same way validation accepts it, so stored casing cannot shift a herd onto
// the wrong profile; anything unrecognized defaults to cattle.
func profileFor(species models.Species) speciesProfile {
	if parsed, ok := models.ParseSpecies(string(species)); ok {
		return speciesProfiles[parsed]
	}
	return speciesProfiles[models.SpeciesCattle]
}
