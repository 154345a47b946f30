package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Kameltalbi/Carboscan-mobile/internal/model"
	"github.com/Kameltalbi/Carboscan-mobile/internal/service"
)

type seedRule struct {
	keyword    string
	category   string
	scope      model.Scope
	confidence model.Confidence
}

// Seeded keyword dictionary. Declaration order IS the rule precedence: the
// engine scans rules in insertion order and the first keyword that is a
// substring of the label wins, regardless of specificity.
var dictionaryRules = []seedRule{
	// Energy: electricity
	{"edf", "ELECTRICITE_LOCAUX", model.ScopeEnergyIndirect, 0.95},
	{"enedis", "ELECTRICITE_LOCAUX", model.ScopeEnergyIndirect, 0.95},
	{"direct energie", "ELECTRICITE_LOCAUX", model.ScopeEnergyIndirect, 0.95},
	{"total energie", "ELECTRICITE_LOCAUX", model.ScopeEnergyIndirect, 0.95},
	{"eni", "ELECTRICITE_LOCAUX", model.ScopeEnergyIndirect, 0.90},
	{"ekwateur", "ELECTRICITE_LOCAUX", model.ScopeEnergyIndirect, 0.90},
	{"planete oui", "ELECTRICITE_LOCAUX", model.ScopeEnergyIndirect, 0.90},
	{"electricite", "ELECTRICITE_LOCAUX", model.ScopeEnergyIndirect, 0.85},
	{"facture edf", "ELECTRICITE_LOCAUX", model.ScopeEnergyIndirect, 0.95},
	{"kwh", "ELECTRICITE_LOCAUX", model.ScopeEnergyIndirect, 0.80},

	// Energy: natural gas
	{"engie", "GAZ_NATUREL_LOCAUX", model.ScopeDirect, 0.95},
	{"grdf", "GAZ_NATUREL_LOCAUX", model.ScopeDirect, 0.95},
	{"gaz naturel", "GAZ_NATUREL_LOCAUX", model.ScopeDirect, 0.90},
	{"gaz de france", "GAZ_NATUREL_LOCAUX", model.ScopeDirect, 0.95},
	{"chauffage gaz", "GAZ_NATUREL_LOCAUX", model.ScopeDirect, 0.85},

	// Fuel
	{"shell", "VEHICULE_ENTREPRISE_ESSENCE", model.ScopeDirect, 0.90},
	{"total", "VEHICULE_ENTREPRISE_DIESEL", model.ScopeDirect, 0.90},
	{"totalenergies", "VEHICULE_ENTREPRISE_DIESEL", model.ScopeDirect, 0.90},
	{"bp", "VEHICULE_ENTREPRISE_ESSENCE", model.ScopeDirect, 0.90},
	{"esso", "VEHICULE_ENTREPRISE_ESSENCE", model.ScopeDirect, 0.90},
	{"avia", "VEHICULE_ENTREPRISE_DIESEL", model.ScopeDirect, 0.85},
	{"intermarche carburant", "VEHICULE_ENTREPRISE_ESSENCE", model.ScopeDirect, 0.85},
	{"leclerc carburant", "VEHICULE_ENTREPRISE_ESSENCE", model.ScopeDirect, 0.85},
	{"station service", "VEHICULE_ENTREPRISE_ESSENCE", model.ScopeDirect, 0.80},
	{"essence", "VEHICULE_ENTREPRISE_ESSENCE", model.ScopeDirect, 0.85},
	{"diesel", "VEHICULE_ENTREPRISE_DIESEL", model.ScopeDirect, 0.85},
	{"gazole", "VEHICULE_ENTREPRISE_DIESEL", model.ScopeDirect, 0.85},
	{"carburant", "VEHICULE_ENTREPRISE_ESSENCE", model.ScopeDirect, 0.75},

	// Cloud
	{"aws", "SERVICES_CLOUD", model.ScopeValueChain, 0.95},
	{"amazon web services", "SERVICES_CLOUD", model.ScopeValueChain, 0.95},
	{"azure", "SERVICES_CLOUD", model.ScopeValueChain, 0.95},
	{"microsoft azure", "SERVICES_CLOUD", model.ScopeValueChain, 0.95},
	{"google cloud", "SERVICES_CLOUD", model.ScopeValueChain, 0.95},
	{"gcp", "SERVICES_CLOUD", model.ScopeValueChain, 0.95},
	{"ovh", "SERVICES_CLOUD", model.ScopeValueChain, 0.95},
	{"scaleway", "SERVICES_CLOUD", model.ScopeValueChain, 0.90},
	{"digital ocean", "SERVICES_CLOUD", model.ScopeValueChain, 0.90},
	{"heroku", "SERVICES_CLOUD", model.ScopeValueChain, 0.90},
	{"netlify", "SERVICES_CLOUD", model.ScopeValueChain, 0.85},
	{"vercel", "SERVICES_CLOUD", model.ScopeValueChain, 0.85},
	{"cloud", "SERVICES_CLOUD", model.ScopeValueChain, 0.75},
	{"hebergement", "SERVICES_CLOUD", model.ScopeValueChain, 0.75},

	// IT hardware
	{"dell", "MATERIEL_INFORMATIQUE", model.ScopeValueChain, 0.90},
	{"hp", "MATERIEL_INFORMATIQUE", model.ScopeValueChain, 0.90},
	{"lenovo", "MATERIEL_INFORMATIQUE", model.ScopeValueChain, 0.90},
	{"apple", "MATERIEL_INFORMATIQUE", model.ScopeValueChain, 0.90},
	{"asus", "MATERIEL_INFORMATIQUE", model.ScopeValueChain, 0.85},
	{"acer", "MATERIEL_INFORMATIQUE", model.ScopeValueChain, 0.85},
	{"microsoft surface", "MATERIEL_INFORMATIQUE", model.ScopeValueChain, 0.90},
	{"ordinateur", "MATERIEL_INFORMATIQUE", model.ScopeValueChain, 0.80},
	{"laptop", "MATERIEL_INFORMATIQUE", model.ScopeValueChain, 0.80},
	{"serveur", "MATERIEL_INFORMATIQUE", model.ScopeValueChain, 0.85},
	{"pc", "MATERIEL_INFORMATIQUE", model.ScopeValueChain, 0.70},

	// Air travel
	{"air france", "DEPLACEMENT_AVION_LONG", model.ScopeValueChain, 0.95},
	{"klm", "DEPLACEMENT_AVION_LONG", model.ScopeValueChain, 0.95},
	{"lufthansa", "DEPLACEMENT_AVION_LONG", model.ScopeValueChain, 0.95},
	{"british airways", "DEPLACEMENT_AVION_LONG", model.ScopeValueChain, 0.95},
	{"easyjet", "DEPLACEMENT_AVION_COURT", model.ScopeValueChain, 0.95},
	{"ryanair", "DEPLACEMENT_AVION_COURT", model.ScopeValueChain, 0.95},
	{"transavia", "DEPLACEMENT_AVION_COURT", model.ScopeValueChain, 0.90},
	{"vueling", "DEPLACEMENT_AVION_COURT", model.ScopeValueChain, 0.90},
	{"emirates", "DEPLACEMENT_AVION_LONG", model.ScopeValueChain, 0.95},
	{"qatar airways", "DEPLACEMENT_AVION_LONG", model.ScopeValueChain, 0.95},
	{"billet avion", "DEPLACEMENT_AVION_LONG", model.ScopeValueChain, 0.85},
	{"vol", "DEPLACEMENT_AVION_LONG", model.ScopeValueChain, 0.75},

	// Rail
	{"sncf", "DEPLACEMENT_TRAIN", model.ScopeValueChain, 0.95},
	{"tgv", "DEPLACEMENT_TRAIN", model.ScopeValueChain, 0.95},
	{"ouigo", "DEPLACEMENT_TRAIN", model.ScopeValueChain, 0.95},
	{"eurostar", "DEPLACEMENT_TRAIN", model.ScopeValueChain, 0.95},
	{"thalys", "DEPLACEMENT_TRAIN", model.ScopeValueChain, 0.95},
	{"intercites", "DEPLACEMENT_TRAIN", model.ScopeValueChain, 0.90},
	{"ter", "DEPLACEMENT_TRAIN", model.ScopeValueChain, 0.85},
	{"train", "DEPLACEMENT_TRAIN", model.ScopeValueChain, 0.80},

	// Taxi / ride hailing
	{"uber", "TAXI_VTC", model.ScopeValueChain, 0.95},
	{"bolt", "TAXI_VTC", model.ScopeValueChain, 0.95},
	{"heetch", "TAXI_VTC", model.ScopeValueChain, 0.90},
	{"kapten", "TAXI_VTC", model.ScopeValueChain, 0.90},
	{"g7", "TAXI_VTC", model.ScopeValueChain, 0.90},
	{"taxi", "TAXI_VTC", model.ScopeValueChain, 0.85},
	{"vtc", "TAXI_VTC", model.ScopeValueChain, 0.85},

	// Freight and parcels
	{"dhl", "MESSAGERIE", model.ScopeValueChain, 0.95},
	{"ups", "MESSAGERIE", model.ScopeValueChain, 0.95},
	{"fedex", "FRET_AERIEN", model.ScopeValueChain, 0.95},
	{"chronopost", "MESSAGERIE", model.ScopeValueChain, 0.95},
	{"colissimo", "MESSAGERIE", model.ScopeValueChain, 0.95},
	{"mondial relay", "MESSAGERIE", model.ScopeValueChain, 0.90},
	{"relais colis", "MESSAGERIE", model.ScopeValueChain, 0.90},
	{"geodis", "FRET_ROUTIER", model.ScopeValueChain, 0.90},
	{"colis prive", "MESSAGERIE", model.ScopeValueChain, 0.85},
	{"tnt", "MESSAGERIE", model.ScopeValueChain, 0.90},
	{"gls", "MESSAGERIE", model.ScopeValueChain, 0.85},
	{"dpd", "MESSAGERIE", model.ScopeValueChain, 0.85},
	{"colis", "MESSAGERIE", model.ScopeValueChain, 0.75},
	{"livraison", "MESSAGERIE", model.ScopeValueChain, 0.70},

	// Office supplies
	{"office depot", "FOURNITURES_BUREAU", model.ScopeValueChain, 0.95},
	{"staples", "FOURNITURES_BUREAU", model.ScopeValueChain, 0.95},
	{"lyreco", "FOURNITURES_BUREAU", model.ScopeValueChain, 0.95},
	{"raja", "FOURNITURES_BUREAU", model.ScopeValueChain, 0.90},
	{"bureau vallee", "FOURNITURES_BUREAU", model.ScopeValueChain, 0.90},
	{"papeterie", "FOURNITURES_BUREAU", model.ScopeValueChain, 0.80},
	{"fourniture", "FOURNITURES_BUREAU", model.ScopeValueChain, 0.75},

	// Furniture
	{"ikea", "MOBILIER", model.ScopeValueChain, 0.90},
	{"conforama", "MOBILIER", model.ScopeValueChain, 0.85},
	{"but", "MOBILIER", model.ScopeValueChain, 0.85},
	{"steelcase", "MOBILIER", model.ScopeValueChain, 0.90},
	{"herman miller", "MOBILIER", model.ScopeValueChain, 0.90},
	{"meuble", "MOBILIER", model.ScopeValueChain, 0.75},
	{"bureau", "MOBILIER", model.ScopeValueChain, 0.70},
	{"chaise", "MOBILIER", model.ScopeValueChain, 0.75},

	// Telecom
	{"orange", "PRESTATIONS_EXTERNES", model.ScopeValueChain, 0.90},
	{"sfr", "PRESTATIONS_EXTERNES", model.ScopeValueChain, 0.90},
	{"bouygues telecom", "PRESTATIONS_EXTERNES", model.ScopeValueChain, 0.90},
	{"free", "PRESTATIONS_EXTERNES", model.ScopeValueChain, 0.90},
	{"red by sfr", "PRESTATIONS_EXTERNES", model.ScopeValueChain, 0.85},
	{"sosh", "PRESTATIONS_EXTERNES", model.ScopeValueChain, 0.85},
	{"telecom", "PRESTATIONS_EXTERNES", model.ScopeValueChain, 0.75},

	// E-commerce and marketplaces
	{"amazon", "FOURNITURES_BUREAU", model.ScopeValueChain, 0.75},
	{"cdiscount", "FOURNITURES_BUREAU", model.ScopeValueChain, 0.70},
	{"fnac", "MATERIEL_INFORMATIQUE", model.ScopeValueChain, 0.75},
	{"darty", "MATERIEL_INFORMATIQUE", model.ScopeValueChain, 0.75},
	{"boulanger", "MATERIEL_INFORMATIQUE", model.ScopeValueChain, 0.75},
	{"manomano", "FOURNITURES_BUREAU", model.ScopeValueChain, 0.70},
	{"leroy merlin", "FOURNITURES_BUREAU", model.ScopeValueChain, 0.70},
	{"castorama", "FOURNITURES_BUREAU", model.ScopeValueChain, 0.70},

	// Professional services
	{"comptable", "PRESTATIONS_EXTERNES", model.ScopeValueChain, 0.85},
	{"avocat", "PRESTATIONS_EXTERNES", model.ScopeValueChain, 0.85},
	{"consultant", "PRESTATIONS_EXTERNES", model.ScopeValueChain, 0.85},
	{"expert", "PRESTATIONS_EXTERNES", model.ScopeValueChain, 0.75},
	{"audit", "PRESTATIONS_EXTERNES", model.ScopeValueChain, 0.80},
	{"formation", "PRESTATIONS_EXTERNES", model.ScopeValueChain, 0.80},
	{"prestation", "PRESTATIONS_EXTERNES", model.ScopeValueChain, 0.70},

	// Hotels and catering
	{"hotel", "DEPLACEMENT_TRAIN", model.ScopeValueChain, 0.75},
	{"booking", "DEPLACEMENT_TRAIN", model.ScopeValueChain, 0.80},
	{"airbnb", "DEPLACEMENT_TRAIN", model.ScopeValueChain, 0.80},
	{"restaurant", "PRESTATIONS_EXTERNES", model.ScopeValueChain, 0.70},
	{"repas", "PRESTATIONS_EXTERNES", model.ScopeValueChain, 0.65},

	// Banking and insurance
	{"bnp paribas", "PRESTATIONS_EXTERNES", model.ScopeValueChain, 0.70},
	{"societe generale", "PRESTATIONS_EXTERNES", model.ScopeValueChain, 0.70},
	{"credit agricole", "PRESTATIONS_EXTERNES", model.ScopeValueChain, 0.70},
	{"lcl", "PRESTATIONS_EXTERNES", model.ScopeValueChain, 0.70},
	{"caisse d'epargne", "PRESTATIONS_EXTERNES", model.ScopeValueChain, 0.70},
	{"axa", "PRESTATIONS_EXTERNES", model.ScopeValueChain, 0.70},
	{"allianz", "PRESTATIONS_EXTERNES", model.ScopeValueChain, 0.70},
	{"assurance", "PRESTATIONS_EXTERNES", model.ScopeValueChain, 0.65},
}

// SeedDictionary inserts the seeded keyword rules, preserving declaration
// order so the engine's first-match scan stays deterministic across runs.
// Already-present keywords are left untouched.
func SeedDictionary(ctx context.Context, store service.Storage) error {
	inserted := 0
	for _, s := range dictionaryRules {
		rule := &model.ClassificationRule{
			Keyword:    s.keyword,
			Category:   s.category,
			Scope:      s.scope,
			Confidence: s.confidence,
			Country:    "ALL",
			IsLearned:  false,
		}
		if err := store.InsertRuleIfAbsent(ctx, rule); err != nil {
			return fmt.Errorf("failed to seed rule %q: %w", s.keyword, err)
		}
		if rule.ID != 0 {
			inserted++
		}
	}
	if inserted > 0 {
		slog.Info("seeded classification dictionary", "rules", inserted)
	}
	return nil
}

// DictionarySize returns the number of seeded keyword rules.
func DictionarySize() int {
	return len(dictionaryRules)
}
