// Package catalog holds the seeded emission-category catalog and the keyword
// dictionary the classification engine is bootstrapped with.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Kameltalbi/Carboscan-mobile/internal/model"
	"github.com/Kameltalbi/Carboscan-mobile/internal/service"
)

// DefaultCountry is the catalog's reference country; factor lookups for
// other countries fall back to it.
const DefaultCountry = "FR"

type seedCategory struct {
	id          string
	label       string
	unit        string
	description string
	scope       model.Scope
	factor      float64
}

// French reference set, ADEME Base Carbone 2024.
var franceCategories = []seedCategory{
	// Scope 1: direct emissions
	{"VEHICULE_ENTREPRISE_ESSENCE", "Véhicule entreprise essence", "km", "km parcourus par la flotte", model.ScopeDirect, 0.218},
	{"VEHICULE_ENTREPRISE_DIESEL", "Véhicule entreprise diesel", "km", "km parcourus par la flotte", model.ScopeDirect, 0.171},
	{"VEHICULE_ENTREPRISE_ELECTRIQUE", "Véhicule entreprise électrique", "km", "km parcourus par la flotte", model.ScopeDirect, 0.020},
	{"GAZ_NATUREL_LOCAUX", "Gaz naturel locaux", "m³", "m³ consommés (chauffage bureaux)", model.ScopeDirect, 2.04},
	{"FIOUL_LOCAUX", "Fioul locaux", "L", "litres consommés (chauffage)", model.ScopeDirect, 3.17},
	{"CLIMATISATION", "Climatisation (fuites)", "kWh", "kWh consommés + fuites frigorigènes", model.ScopeDirect, 0.5},

	// Scope 2: purchased energy
	{"ELECTRICITE_LOCAUX", "Électricité locaux", "kWh", "kWh consommés (bureaux/ateliers)", model.ScopeEnergyIndirect, 0.052},

	// Scope 3: value chain
	{"DEPLACEMENT_AVION_COURT", "Déplacement avion court-courrier", "km", "km de vol professionnel", model.ScopeValueChain, 0.255},
	{"DEPLACEMENT_AVION_LONG", "Déplacement avion long-courrier", "km", "km de vol professionnel", model.ScopeValueChain, 0.195},
	{"DEPLACEMENT_TRAIN", "Déplacement train", "km", "km trajets clients/fournisseurs", model.ScopeValueChain, 0.004},
	{"TAXI_VTC", "Taxi / VTC", "km", "km déplacements urbains", model.ScopeValueChain, 0.218},
	{"FOURNITURES_BUREAU", "Fournitures bureau", "€", "euros dépensés (papier, stylos, etc.)", model.ScopeValueChain, 0.15},
	{"MATERIEL_INFORMATIQUE", "Matériel informatique", "€", "euros dépensés (ordinateurs, serveurs)", model.ScopeValueChain, 0.085},
	{"MOBILIER", "Mobilier", "€", "euros dépensés (bureaux, chaises)", model.ScopeValueChain, 0.12},
	{"SERVICES_CLOUD", "Services cloud", "€", "euros dépensés (AWS, Azure, GCP)", model.ScopeValueChain, 0.05},
	{"PRESTATIONS_EXTERNES", "Prestations externes", "€", "euros dépensés (consultants, sous-traitants)", model.ScopeValueChain, 0.08},
	{"MATIERES_PREMIERES", "Matières premières", "kg", "kg achetés (selon secteur)", model.ScopeValueChain, 0.5},
	{"FRET_ROUTIER", "Fret routier", "t.km", "tonnes × kilomètres", model.ScopeValueChain, 0.062},
	{"FRET_MARITIME", "Fret maritime", "t.km", "tonnes × kilomètres", model.ScopeValueChain, 0.011},
	{"FRET_AERIEN", "Fret aérien", "t.km", "tonnes × kilomètres", model.ScopeValueChain, 1.1},
	{"MESSAGERIE", "Messagerie / Colis", "colis", "nombre de colis envoyés", model.ScopeValueChain, 0.5},
	{"DECHETS_RECYCLABLES", "Déchets recyclables", "kg", "kg de déchets (papier, carton, plastique)", model.ScopeValueChain, 0.02},
	{"DECHETS_NON_RECYCLABLES", "Déchets non recyclables", "kg", "kg de déchets (ordures ménagères)", model.ScopeValueChain, 0.5},
	{"DECHETS_DANGEREUX", "Déchets dangereux", "kg", "kg de déchets (chimiques, électroniques)", model.ScopeValueChain, 1.2},
}

// CategoriesForCountry builds the seeded catalog for a country code.
// Unknown countries get the French reference set.
func CategoriesForCountry(country string) []model.Category {
	switch country {
	case "US":
		return factorSet("US", []model.Category{
			category("ELECTRICITE_LOCAUX", model.ScopeEnergyIndirect, "kWh", 0.385, "EPA eGRID 2023", "US average grid mix", "electricity", "power", "energy"),
			category("GAZ_NATUREL_LOCAUX", model.ScopeDirect, "m³", 2.15, "EPA 2023", "Natural gas combustion", "natural gas", "gas", "heating"),
			category("VEHICULE_ENTREPRISE_ESSENCE", model.ScopeDirect, "mile", 0.351, "EPA 2023", "Gasoline vehicle (converted to miles)", "car", "vehicle", "gasoline", "petrol"),
		})
	case "UK":
		return factorSet("UK", []model.Category{
			category("ELECTRICITE_LOCAUX", model.ScopeEnergyIndirect, "kWh", 0.233, "DEFRA 2024", "UK grid average", "electricity", "power"),
			category("GAZ_NATUREL_LOCAUX", model.ScopeDirect, "m³", 2.04, "DEFRA 2024", "Natural gas", "natural gas", "gas"),
		})
	case "DE":
		return factorSet("DE", []model.Category{
			category("ELECTRICITE_LOCAUX", model.ScopeEnergyIndirect, "kWh", 0.485, "UBA 2024", "German grid mix (coal intensive)", "strom", "elektrizität", "electricity"),
			category("GAZ_NATUREL_LOCAUX", model.ScopeDirect, "m³", 2.04, "UBA 2024", "Erdgas", "erdgas", "gas", "natural gas"),
		})
	case "ES":
		return factorSet("ES", []model.Category{
			category("ELECTRICITE_LOCAUX", model.ScopeEnergyIndirect, "kWh", 0.210, "MITECO 2024", "Spanish grid mix", "electricidad", "electricity"),
			category("GAZ_NATUREL_LOCAUX", model.ScopeDirect, "m³", 2.04, "MITECO 2024", "Gas natural", "gas natural", "gas"),
		})
	default:
		return franceSet()
	}
}

func franceSet() []model.Category {
	categories := make([]model.Category, 0, len(franceCategories))
	for _, s := range franceCategories {
		categories = append(categories, model.Category{
			ID:           s.id,
			Label:        s.label,
			Scope:        s.scope,
			Unit:         s.unit,
			FactorKgCo2e: s.factor,
			Country:      DefaultCountry,
			Source:       "ADEME Base Carbone 2024",
			Description:  s.description,
			Keywords:     keywordsFromLabel(s.label),
		})
	}
	return categories
}

func category(id string, scope model.Scope, unit string, factor float64, source, description string, keywords ...string) model.Category {
	return model.Category{
		ID:           id,
		Label:        id,
		Scope:        scope,
		Unit:         unit,
		FactorKgCo2e: factor,
		Source:       source,
		Description:  description,
		Keywords:     keywords,
	}
}

func factorSet(country string, categories []model.Category) []model.Category {
	for i := range categories {
		categories[i].Country = country
	}
	return categories
}

// keywordsFromLabel derives lookup keywords from a category label:
// lowercase words longer than two characters.
func keywordsFromLabel(label string) []string {
	fields := strings.FieldsFunc(strings.ToLower(label), func(r rune) bool {
		return r == ' ' || r == '/' || r == '-'
	})
	keywords := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > 2 {
			keywords = append(keywords, f)
		}
	}
	return keywords
}

// Seed loads the French reference catalog if the catalog is empty.
func Seed(ctx context.Context, store service.Storage) error {
	count, err := store.CategoryCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	if err := store.SaveCategories(ctx, franceSet()); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	slog.Info("seeded emission factor catalog", "country", DefaultCountry, "categories", len(franceCategories))
	return nil
}

// SyncCountry replaces a country's factor set wholesale.
func SyncCountry(ctx context.Context, store service.Storage, country string) error {
	categories := CategoriesForCountry(country)
	if err := store.ReplaceCategoriesForCountry(ctx, country, categories); err != nil {
		return fmt.Errorf("failed to sync categories for %s: %w", country, err)
	}
	slog.Info("synced emission factor catalog", "country", country, "categories", len(categories))
	return nil
}
