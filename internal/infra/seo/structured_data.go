package seo

import (
	"encoding/json"
	"fmt"

	"toolsapp/internal/domain"
)

// Field order is part of the published JSON-LD and must stay stable.
type softwareApplication struct {
	Context             string          `json:"@context"`
	Type                string          `json:"@type"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	URL                 string          `json:"url"`
	ApplicationCategory string          `json:"applicationCategory"`
	OperatingSystem     string          `json:"operatingSystem"`
	Offers              offer           `json:"offers"`
	Author              organization    `json:"author"`
	AggregateRating     aggregateRating `json:"aggregateRating"`
	FeatureList         string          `json:"featureList"`
	BrowserRequirements string          `json:"browserRequirements"`
	Permissions         string          `json:"permissions"`
	PrivacyPolicy       string          `json:"privacyPolicy"`
	InLanguage          string          `json:"inLanguage"`
	Audience            audience        `json:"audience"`
}

type offer struct {
	Type          string `json:"@type"`
	Price         string `json:"price"`
	PriceCurrency string `json:"priceCurrency"`
}

type organization struct {
	Type string `json:"@type"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type aggregateRating struct {
	Type        string `json:"@type"`
	RatingValue string `json:"ratingValue"`
	RatingCount string `json:"ratingCount"`
}

type audience struct {
	Type         string `json:"@type"`
	AudienceType string `json:"audienceType"`
}

func (b *Builder) structuredData(tool *domain.Tool, url string) (json.RawMessage, error) {
	doc := softwareApplication{
		Context:             "https://schema.org",
		Type:                "SoftwareApplication",
		Name:                tool.Name,
		Description:         tool.Description,
		URL:                 url,
		ApplicationCategory: "DeveloperApplication",
		OperatingSystem:     "Any",
		Offers:              offer{Type: "Offer", Price: "0", PriceCurrency: "USD"},
		Author:              organization{Type: "Organization", Name: b.site.Name, URL: b.site.BaseURL},
		AggregateRating:     aggregateRating{Type: "AggregateRating", RatingValue: "4.9", RatingCount: "1250"},
		FeatureList:         tool.Description,
		BrowserRequirements: "Modern web browser with JavaScript enabled",
		Permissions:         "No special permissions required. Runs entirely in browser.",
		PrivacyPolicy:       b.site.PrivacyPolicyURL,
		InLanguage:          "en-US",
		Audience:            audience{Type: "Audience", AudienceType: "Software Developers, Technical Professionals"},
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal structured data: %w", err)
	}
	return raw, nil
}
