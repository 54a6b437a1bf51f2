package scoring

// DefaultDimensions returns the five scoring dimensions over t.
func DefaultDimensions(t *Tables) []Dimension {
	return []Dimension{
		&RarityDimension{Tables: t},
		&BoardDimension{Tables: t},
		&CompanionDimension{Tables: t},
		&AbilityDimension{Tables: t},
		&TitleDimension{Tables: t},
	}
}
