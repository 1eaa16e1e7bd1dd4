package server

import "proposal-service/internal/common/validation"

// generatePayloadSchema guards the generation endpoint: structural problems
// are rejected before the payload reaches the assembler, whose own Validate
// then reports the semantic ones.
var generatePayloadSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"proposal": {
			Type: "object",
			Properties: map[string]validation.Property{
				"id":    {Type: "string", MinLength: validation.IntPtr(1)},
				"title": {Type: "string"},
				"line_items": {
					Type:     "array",
					MinItems: validation.IntPtr(1),
					Items: &validation.Property{
						Type: "object",
						Properties: map[string]validation.Property{
							"id":          {Type: "string"},
							"name":        {Type: "string"},
							"description": {Type: "string"},
							"quantity":    {Type: "number", Minimum: validation.Float64Ptr(0)},
							"unit_price":  {Type: "number", Minimum: validation.Float64Ptr(0)},
							"total":       {Type: "number"},
						},
						Required: []string{"name", "quantity", "unit_price", "total"},
					},
				},
				"subtotal":   {Type: "number"},
				"tax":        {Type: "number"},
				"tax_rate":   {Type: "number", Minimum: validation.Float64Ptr(0)},
				"total":      {Type: "number"},
				"currency":   {Type: "string"},
				"created_at": {Type: "string"},
			},
			Required: []string{"id", "title", "line_items", "total"},
		},
		"company": {
			Type: "object",
			Properties: map[string]validation.Property{
				"name":     {Type: "string", MinLength: validation.IntPtr(1)},
				"email":    {Type: "string"},
				"phone":    {Type: "string"},
				"website":  {Type: "string"},
				"logo_url": {Type: "string"},
			},
			Required: []string{"name"},
		},
		"contact": {
			Type: "object",
			Properties: map[string]validation.Property{
				"first_name": {Type: "string"},
				"last_name":  {Type: "string"},
				"email":      {Type: "string"},
				"title":      {Type: "string"},
			},
		},
		"paymentLink":    {Type: "string"},
		"acceptanceLink": {Type: "string"},
		"options": {
			Type: "object",
			Properties: map[string]validation.Property{
				"template":            {Type: "string"},
				"includePaymentQR":    {Type: "boolean"},
				"includeAcceptanceQR": {Type: "boolean"},
				"logoUrl":             {Type: "string"},
				"format":              {Type: "string", Enum: []string{"A4", "Letter"}},
				"watermark":           {Type: "string"},
				"branding": {
					Type: "object",
					Properties: map[string]validation.Property{
						"primaryColor": {Type: "string"},
						"accentColor":  {Type: "string"},
						"fontFamily":   {Type: "string"},
					},
				},
			},
		},
	},
	Required: []string{"proposal", "company"},
}
