package engine

// policy.go is the single place where a source schema's validation
// behavior is declared. Everything the canonicalizer does differently per
// schema flows from this table.

// SchemaPolicy declares how one source schema shapes validation.
type SchemaPolicy struct {
	Schema SourceSchema

	// DoseRelaxed relaxes requiredness to generic-name-only for rows that
	// carry no strength. POS dumps mix real medicines with non-dosed SKUs
	// (devices, bundles) that should not be blocked on a wall of errors.
	DoseRelaxed bool

	// CategoryDigitsOK exempts purely integer category values from the
	// digit/unit suspicion checks; POS category columns are often numeric
	// IDs.
	CategoryDigitsOK bool

	// CategoryMembership enforces that the category label belongs to the
	// medicine umbrella set or the fixed non-medicine set.
	CategoryMembership bool

	// ProductType enables explicit medicine/non-medicine handling with
	// non-medicine auto-inference.
	ProductType bool
}

var schemaPolicies = map[SourceSchema]SchemaPolicy{
	SchemaTemplateV3: {
		Schema:             SchemaTemplateV3,
		CategoryMembership: true,
		ProductType:        true,
	},
	SchemaConcatItems: {
		Schema:           SchemaConcatItems,
		DoseRelaxed:      true,
		CategoryDigitsOK: true,
	},
	SchemaCSVGeneric: {
		Schema: SchemaCSVGeneric,
	},
	SchemaUnknown: {
		Schema:      SchemaUnknown,
		DoseRelaxed: true,
	},
}

// PolicyFor returns the validation policy for a schema.
func PolicyFor(schema SourceSchema) SchemaPolicy {
	if p, ok := schemaPolicies[schema]; ok {
		return p
	}
	return schemaPolicies[SchemaUnknown]
}

// requiredCoreKeys are the flat fields required beyond generic_name under
// full (non-relaxed) requiredness. "pack" is satisfied by any packaging
// signal: pieces per unit, a pkg identity code, or a unit label.
var requiredCoreKeys = []string{
	"strength", "form", "category", "expiry_date", "pack", "coo", "on_hand",
}

// RequiredFields reports the schema's requiredness as dotted paths for the
// result meta.
func (p SchemaPolicy) RequiredFields() []string {
	if p.DoseRelaxed {
		return []string{"product.generic_name"}
	}
	out := []string{"product.generic_name"}
	for _, key := range requiredCoreKeys {
		if key == "pack" {
			out = append(out, "pkg.pieces_per_unit")
			continue
		}
		out = append(out, FieldPath(key))
	}
	return out
}
