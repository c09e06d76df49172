package views

import (
	"encoding/json"
	"html/template"
	"strings"
)

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block using cfg values.
func WebsiteJsonLD(cfg SiteConfig) template.HTML {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      cfg.URL,
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	return jsonLD(data)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block.
func BlogPostingJsonLD(cfg SiteConfig, headline, description, postURL, datePublished string, tags []string) template.HTML {
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      headline,
		"description":   description,
		"datePublished": datePublished,
		"url":           postURL,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	if len(tags) > 0 {
		data["keywords"] = strings.Join(tags, ", ")
	}
	return jsonLD(data)
}

func jsonLD(data map[string]interface{}) template.HTML {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	// json.Marshal escapes <, > and & so the block is safe inside a script tag.
	return template.HTML(b)
}
