package report

import (
	"strings"

	"github.com/Kameltalbi/Carboscan-mobile/internal/model"
)

// reductionTemplates map a category name fragment to a suggested measure.
// savingShare is the fraction of the category's emissions the measure can
// remove; costPerKg prices the effort in euros per kg avoided.
var reductionTemplates = []struct {
	fragment    string
	title       string
	description string
	difficulty  string
	savingShare float64
	costPerKg   float64
}{
	{
		fragment:    "VEHICULE",
		title:       "Électrifier la flotte",
		description: "Remplacer les véhicules thermiques par des véhicules électriques",
		difficulty:  "Moyen",
		savingShare: 0.9,
		costPerKg:   0.05,
	},
	{
		fragment:    "ELECTRICITE",
		title:       "Passer à l'électricité verte",
		description: "Souscrire un contrat d'électricité d'origine renouvelable",
		difficulty:  "Facile",
		savingShare: 0.8,
		costPerKg:   0,
	},
	{
		fragment:    "AVION",
		title:       "Privilégier le train",
		description: "Remplacer les vols courts par le train quand le trajet le permet",
		difficulty:  "Facile",
		savingShare: 0.5,
		costPerKg:   0.08,
	},
	{
		fragment:    "CLOUD",
		title:       "Optimiser l'infrastructure cloud",
		description: "Dimensionner les instances au besoin réel et éteindre les environnements inutilisés",
		difficulty:  "Moyen",
		savingShare: 0.3,
		costPerKg:   0.05,
	},
}

// reductionPlan derives measures from the five biggest emission categories.
// Categories with no matching template contribute nothing.
func reductionPlan(topCategories []model.CategoryBreakdown) []model.ReductionAction {
	considered := topCategories
	if len(considered) > 5 {
		considered = considered[:5]
	}

	var plan []model.ReductionAction
	for _, line := range considered {
		for _, tmpl := range reductionTemplates {
			if !strings.Contains(line.Category, tmpl.fragment) {
				continue
			}
			savingKg := line.KgCo2e * tmpl.savingShare
			plan = append(plan, model.ReductionAction{
				Title:               tmpl.title,
				Description:         tmpl.description,
				Difficulty:          tmpl.difficulty,
				PotentialSavingKg:   savingKg,
				PotentialSavingEuro: savingKg * tmpl.costPerKg,
			})
			break
		}
	}
	return plan
}
