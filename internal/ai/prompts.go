package ai

import (
	"fmt"
	"strings"

	"github.com/bco89/product-builder-pro-sub000/internal/domain"
)

// systemPromptTemplate sets the brand-voice framing for every generation
const systemPromptTemplate = `You are a product copywriter for the Shopify store %q.
Brand voice: %s. Target audience: %s.
Write valid HTML using only <p>, <ul>, <li>, <strong> and <em> tags.`

// BuildSystemPrompt renders the store-level framing from shop facts
func BuildSystemPrompt(identity *domain.ShopIdentity, settings *domain.StoreSettings) string {
	voice := "clear and confident"
	audience := "general shoppers"
	if settings != nil {
		if settings.BrandVoice != "" {
			voice = settings.BrandVoice
		}
		if settings.TargetAudience != "" {
			audience = settings.TargetAudience
		}
	}
	name := ""
	if identity != nil {
		name = identity.Name
	}
	return fmt.Sprintf(systemPromptTemplate, name, voice, audience)
}

// BuildDescriptionPrompt renders the per-product request, tuned to the
// product type so apparel reads differently from electronics
func BuildDescriptionPrompt(req *domain.DescriptionRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a product description for %q", req.ProductTitle)
	if req.ProductType != "" {
		fmt.Fprintf(&b, " (product type: %s)", req.ProductType)
	}
	if req.Vendor != "" {
		fmt.Fprintf(&b, " by %s", req.Vendor)
	}
	b.WriteString(".\n")
	if len(req.Keywords) > 0 {
		fmt.Fprintf(&b, "Work in these keywords naturally: %s.\n", strings.Join(req.Keywords, ", "))
	}
	if req.Tone != "" {
		fmt.Fprintf(&b, "Tone: %s.\n", req.Tone)
	}
	b.WriteString("Return the description HTML only, no preamble.")
	return b.String()
}
