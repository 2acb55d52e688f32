package client

import (
	"github.com/dmitrymomot/smaug/pkg/validator"
)

// Patch keys.
const (
	FieldID      = "id"
	FieldSecret  = "secret"
	FieldName    = "name"
	FieldConfig  = "config"
	FieldContact = "contact"
	FieldAuth    = "auth"
)

// OwnerContact must be present in every contact set.
const OwnerContact = "owner"

// searchStringKeys must hold strings when present in config.search.
var searchStringKeys = []string{"agency", "profile", "collectionidentifiers"}

var contactKeys = []string{"name", "phone", "email"}

// Patch is client input as decoded from JSON.
type Patch map[string]any

// Validate checks every present field; with full set, name, config and contact
// are also required. All failures are returned together.
func (p Patch) Validate(full bool) error {
	var rules []validator.Rule

	if full {
		_, hasName := p[FieldName]
		_, hasConfig := p[FieldConfig]
		_, hasContact := p[FieldContact]
		rules = append(rules,
			validator.Required(FieldName, hasName),
			validator.Required(FieldConfig, hasConfig),
			validator.Required(FieldContact, hasContact),
		)
	}

	if v, ok := p[FieldName]; ok {
		rules = append(rules, validator.IsString(FieldName, v))
	}

	if v, ok := p[FieldConfig]; ok {
		rules = append(rules, validator.IsObject(FieldConfig, v))
		if cfg, ok := validator.AsObject(v); ok {
			rules = append(rules, searchRules(cfg)...)
		}
	}

	if v, ok := p[FieldContact]; ok {
		rules = append(rules, validator.IsObject(FieldContact, v))
		if contact, ok := validator.AsObject(v); ok {
			rules = append(rules, contactRules(contact)...)
		}
	}

	if v, ok := p[FieldAuth]; ok && v != nil {
		rules = append(rules, validator.IsString(FieldAuth, v))
	}

	return validator.Apply(rules...)
}

func searchRules(cfg map[string]any) []validator.Rule {
	raw, ok := cfg["search"]
	if !ok {
		return nil
	}
	rules := []validator.Rule{validator.IsObject("config.search", raw)}
	search, ok := validator.AsObject(raw)
	if !ok {
		return rules
	}
	for _, k := range searchStringKeys {
		if v, ok := search[k]; ok {
			rules = append(rules, validator.IsString("config.search."+k, v))
		}
	}
	return rules
}

func contactRules(contact map[string]any) []validator.Rule {
	rules := []validator.Rule{validator.HasKeys(FieldContact, contact, OwnerContact)}
	return append(rules, validator.Each(contact, func(role string, raw any) []validator.Rule {
		field := FieldContact + "." + role
		entry, ok := validator.AsObject(raw)
		if !ok {
			return []validator.Rule{validator.IsObject(field, raw)}
		}
		out := []validator.Rule{validator.ExactKeys(field, entry, contactKeys...)}
		for _, k := range contactKeys {
			if v, ok := entry[k]; ok {
				out = append(out, validator.IsString(field+"."+k, v))
			}
		}
		return out
	})...)
}

// apply copies the present fields of a validated patch into c.
func (p Patch) apply(c *Client) {
	if v, ok := p[FieldName].(string); ok {
		c.Name = v
	}
	if v, ok := validator.AsObject(p[FieldConfig]); ok {
		c.Config = CloneConfig(v)
	}
	if v, ok := validator.AsObject(p[FieldContact]); ok {
		contacts := make(map[string]Contact, len(v))
		for role, raw := range v {
			entry, _ := validator.AsObject(raw)
			name, _ := entry["name"].(string)
			phone, _ := entry["phone"].(string)
			email, _ := entry["email"].(string)
			contacts[role] = Contact{Name: name, Phone: phone, Email: email}
		}
		c.Contact = contacts
	}
	if v, ok := p[FieldAuth]; ok {
		s, _ := v.(string)
		c.AuthBackend = s
	}
}
