package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SiteConfig describes the ss.lv category tree this watcher knows how to
// crawl. Region and category names are the enumerated values criteria
// must reference; anything else is a configuration error for that
// criteria.
type SiteConfig struct {
	BaseURL     string     `yaml:"base_url"`
	ListingPath string     `yaml:"listing_path"`
	Regions     []Region   `yaml:"regions"`
	Categories  []Category `yaml:"categories"`
}

type Region struct {
	Name      string     `yaml:"name"`
	URLPath   string     `yaml:"url_path"`
	Districts []District `yaml:"districts"`
}

type District struct {
	Name    string `yaml:"name"`
	URLSlug string `yaml:"url_slug"`
}

type Category struct {
	Name    string `yaml:"name"`
	URLPath string `yaml:"url_path"`
	Value   string `yaml:"value"`
}

const siteConfigPath = "config/sites/sslv.yaml"

// LoadSite reads the site config file, falling back to the compiled-in
// defaults when the file does not exist.
func LoadSite() (*SiteConfig, error) {
	data, err := os.ReadFile(siteConfigPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSite(), nil
		}
		return nil, err
	}

	var site SiteConfig
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("parse %s: %w", siteConfigPath, err)
	}
	return &site, nil
}

// Region resolves a criteria's region name against the known set.
func (s *SiteConfig) Region(name string) (*Region, bool) {
	for i := range s.Regions {
		if s.Regions[i].Name == name {
			return &s.Regions[i], true
		}
	}
	return nil, false
}

// Category resolves a criteria's category value against the known set.
func (s *SiteConfig) Category(value string) (*Category, bool) {
	for i := range s.Categories {
		if s.Categories[i].Value == value {
			return &s.Categories[i], true
		}
	}
	return nil, false
}

// DefaultSite mirrors the ss.lv structure the crawler was built against.
func DefaultSite() *SiteConfig {
	return &SiteConfig{
		BaseURL:     "https://www.ss.lv",
		ListingPath: "/lv/real-estate/flats/",
		Regions: []Region{
			{
				Name:    "Rīga",
				URLPath: "riga",
				Districts: []District{
					{Name: "Centrs", URLSlug: "centre"},
					{Name: "Āgenskalns", URLSlug: "agenskalns"},
					{Name: "Dārzciems", URLSlug: "darzciems"},
					{Name: "Ķengarags", URLSlug: "kengarags"},
					{Name: "Mežaparks", URLSlug: "mezaparks"},
					{Name: "Purvciems", URLSlug: "purvciems"},
					{Name: "Vecrīga", URLSlug: "vecriga"},
				},
			},
			{
				Name:    "Liepāja",
				URLPath: "liepaja-and-reg",
				Districts: []District{
					{Name: "Aizpute", URLSlug: "aizpute"},
					{Name: "Durbe", URLSlug: "durbe"},
					{Name: "Grobiņa", URLSlug: "grobina"},
					{Name: "Liepāja", URLSlug: "liepaja"},
					{Name: "Pāvilosta", URLSlug: "pavilosta"},
					{Name: "Priekule", URLSlug: "priekule"},
					{Name: "Visi sludinājumi", URLSlug: "all"},
				},
			},
			{
				Name:    "Ventspils",
				URLPath: "ventspils-and-reg",
				Districts: []District{
					{Name: "Piltene", URLSlug: "piltene"},
					{Name: "Ventspils", URLSlug: "ventspils"},
					{Name: "Visi sludinājumi", URLSlug: "all"},
				},
			},
		},
		Categories: []Category{
			{Name: "Pārdod", URLPath: "sell", Value: "sell"},
			{Name: "Izīrē", URLPath: "hand_over", Value: "rent-out"},
			{Name: "Pērk", URLPath: "buy", Value: "buy"},
			{Name: "Īrē", URLPath: "rent", Value: "rent-in"},
		},
	}
}
