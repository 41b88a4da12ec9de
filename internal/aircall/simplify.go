package aircall

// Simplify flattens an API record for lighter downstream handling: nulls are
// dropped, and nested objects carrying an id are collapsed into <key>_id
// (plus <key>_name when a name is present). Arrays and scalars pass through.
func Simplify(data map[string]any) map[string]any {
	simplified := make(map[string]any, len(data))

	for key, value := range data {
		if value == nil {
			continue
		}

		nested, ok := value.(map[string]any)
		if !ok {
			simplified[key] = value
			continue
		}

		if id, hasID := nested["id"]; hasID {
			simplified[key+"_id"] = id
			if name, hasName := nested["name"]; hasName && name != nil && name != "" {
				simplified[key+"_name"] = name
			}
		} else {
			simplified[key] = value
		}
	}

	return simplified
}
