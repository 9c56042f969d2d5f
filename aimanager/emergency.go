package aimanager

import "strings"

// EmergencyMarker prefixes every template-derived response so downstream
// consumers can distinguish recovery content from generated content.
const EmergencyMarker = "[FALLBACK CONTENT]"

// lastResortText covers the pathological case of a missing or empty template
// set. Generate must never return empty text.
const lastResortText = `Content generation is temporarily unavailable for this
request. The analysis pipeline will retry automatically; review provider
configuration if this persists.`

// IsEmergency reports whether the text came from the recovery path.
func IsEmergency(text string) bool {
	return strings.HasPrefix(text, EmergencyMarker)
}

// renderEmergency resolves the emergency template for the component type,
// falling back to the "general" template and finally to a built-in last
// resort. Placeholders {segment} and {product} are substituted from the
// request context when present.
func (o *Orchestrator) renderEmergency(componentType string, requestContext map[string]string) string {
	template, ok := o.templates[componentType]
	if !ok || strings.TrimSpace(template) == "" {
		template, ok = o.templates["general"]
		if !ok || strings.TrimSpace(template) == "" {
			template = lastResortText
		}
	}

	segment := requestContext["segment"]
	if segment == "" {
		segment = "your market"
	}
	product := requestContext["product"]
	if product == "" {
		product = "your offering"
	}

	replacer := strings.NewReplacer("{segment}", segment, "{product}", product)
	return EmergencyMarker + "\n\n" + replacer.Replace(template)
}
