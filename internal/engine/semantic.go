package engine

import (
	"fmt"
	"strings"

	"github.com/Kameltalbi/Carboscan-mobile/internal/model"
)

// semanticMatch recognizes label shapes that no single keyword captures:
// invoice wording, travel vocabulary, infrastructure terms. Input label is
// already lowercased.
func semanticMatch(label string, amount float64) *model.Suggestion {
	switch {
	case strings.Contains(label, "facture") &&
		(strings.Contains(label, "elect") || strings.Contains(label, "kwh")):
		return &model.Suggestion{
			Category:   "ELECTRICITE_LOCAUX",
			Scope:      model.ScopeEnergyIndirect,
			Confidence: 0.85,
			Rationale:  "semantic match: electricity invoice",
			Provenance: model.ProvenanceSemantic,
		}

	case (strings.Contains(label, "station") || strings.Contains(label, "carburant")) && amount < 200:
		return &model.Suggestion{
			Category:   "VEHICULE_ENTREPRISE_ESSENCE",
			Scope:      model.ScopeDirect,
			Confidence: 0.80,
			Rationale:  "semantic match: fuel purchase",
			Provenance: model.ProvenanceSemantic,
		}

	case strings.Contains(label, "cloud") ||
		strings.Contains(label, "serveur") ||
		strings.Contains(label, "hosting"):
		return &model.Suggestion{
			Category:   "SERVICES_CLOUD",
			Scope:      model.ScopeValueChain,
			Confidence: 0.80,
			Rationale:  "semantic match: hosting infrastructure",
			Provenance: model.ProvenanceSemantic,
		}

	case strings.Contains(label, "billet") ||
		strings.Contains(label, "voyage") ||
		strings.Contains(label, "deplacement"):
		category := "DEPLACEMENT_TRAIN"
		if amount > 300 {
			category = "DEPLACEMENT_AVION_LONG"
		}
		return &model.Suggestion{
			Category:   category,
			Scope:      model.ScopeValueChain,
			Confidence: 0.75,
			Rationale:  "semantic match: business travel",
			Provenance: model.ProvenanceSemantic,
		}
	}
	return nil
}

// amountMatch is the last resort: bucket unrecognized labels by spend size.
// Everything it produces lands in scope 3, reflecting that an unknown
// purchase is almost always a value-chain one.
func amountMatch(label string, amount float64) *model.Suggestion {
	switch {
	case amount > 5000:
		category := "PRESTATIONS_EXTERNES"
		switch {
		case strings.Contains(label, "serveur") || strings.Contains(label, "ordinateur"):
			category = "MATERIEL_INFORMATIQUE"
		case strings.Contains(label, "meuble") || strings.Contains(label, "bureau"):
			category = "MOBILIER"
		}
		return amountSuggestion(category, 0.60, amount)

	case amount >= 500:
		category := "PRESTATIONS_EXTERNES"
		switch {
		case strings.Contains(label, "vol") || strings.Contains(label, "avion"):
			category = "DEPLACEMENT_AVION_LONG"
		case strings.Contains(label, "ordinateur") || strings.Contains(label, "laptop"):
			category = "MATERIEL_INFORMATIQUE"
		}
		return amountSuggestion(category, 0.55, amount)

	case amount > 0:
		category := "VEHICULE_ENTREPRISE_ESSENCE"
		switch {
		case strings.Contains(label, "taxi") || strings.Contains(label, "uber"):
			category = "TAXI_VTC"
		case strings.Contains(label, "papier") || strings.Contains(label, "fourniture"):
			category = "FOURNITURES_BUREAU"
		}
		return amountSuggestion(category, 0.50, amount)
	}
	return nil
}

func amountSuggestion(category string, confidence model.Confidence, amount float64) *model.Suggestion {
	return &model.Suggestion{
		Category:   category,
		Scope:      model.ScopeValueChain,
		Confidence: confidence,
		Rationale:  fmt.Sprintf("amount heuristic: %.2f", amount),
		Provenance: model.ProvenanceAmountHeuristic,
	}
}
