package view

// IconOption is a Bootstrap icon offered for radio topic pages.
type IconOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

var radioIcons = []IconOption{
	{Key: "bi-broadcast", Label: "Emisión"},
	{Key: "bi-broadcast-pin", Label: "Repetidor"},
	{Key: "bi-globe-americas", Label: "Satélite"},
	{Key: "bi-cloud-sun", Label: "Meteorología"},
	{Key: "bi-pin-map", Label: "Posición"},
	{Key: "bi-reception-4", Label: "Señal"},
	{Key: "bi-cpu", Label: "Digital"},
	{Key: "bi-tools", Label: "Montajes"},
	{Key: "bi-antenna", Label: "Antenas"},
	{Key: "bi-lightning-charge", Label: "Alimentación"},
}

var radioIconLookup = func() map[string]IconOption {
	lookup := make(map[string]IconOption, len(radioIcons))
	for _, icon := range radioIcons {
		lookup[icon.Key] = icon
	}
	return lookup
}()

// RadioIconOptions returns the icons the admin can pick for a radio topic.
func RadioIconOptions() []IconOption {
	out := make([]IconOption, len(radioIcons))
	copy(out, radioIcons)
	return out
}

// IconLabel returns a readable label for an icon class, used as the icon's aria-label.
// Unknown classes fall back to the class itself.
func IconLabel(key string) string {
	if icon, ok := radioIconLookup[key]; ok {
		return icon.Label
	}
	return key
}
