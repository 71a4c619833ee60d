package model

// DraftDay is one day of a day-by-day draft plan.
type DraftDay struct {
	Number int      `json:"number"`
	Title  string   `json:"title"`
	Topics []string `json:"topics"`
}

// Draft is one parsed draft curriculum, named after its file stem.
type Draft struct {
	Name string     `json:"name"`
	Path string     `json:"path"`
	Days []DraftDay `json:"days"`
}

// Topics returns every topic of the draft in day order.
func (d Draft) Topics() []string {
	var out []string
	for _, day := range d.Days {
		out = append(out, day.Topics...)
	}
	return out
}
