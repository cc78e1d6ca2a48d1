package experiment

// Hypothesis is one testable idea for a problem.
type Hypothesis struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageLabel  string `json:"imageLabel"`
}

// Problem groups the hypotheses a student can choose from.
type Problem struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	Hypotheses []Hypothesis `json:"hypotheses"`
}

// Problems is the fixed training scenario.
var Problems = []Problem{
	{
		ID:    "p1",
		Title: "Low checkout completion",
		Hypotheses: []Hypothesis{
			{
				ID:          "h1",
				Title:       "Shorten checkout",
				Description: "If we reduce steps from 4 to 2, completion increases because friction decreases.",
				ImageLabel:  "Checkout steps mock",
			},
			{
				ID:          "h2",
				Title:       "Stronger trust signals",
				Description: "If we add delivery & returns reassurance, completion increases because anxiety drops.",
				ImageLabel:  "Trust badges mock",
			},
		},
	},
	{
		ID:    "p2",
		Title: "Low product detail engagement",
		Hypotheses: []Hypothesis{
			{
				ID:          "h3",
				Title:       "Better hero images",
				Description: "If we upgrade the first image and add zoom, add-to-cart increases because clarity improves.",
				ImageLabel:  "Product hero mock",
			},
			{
				ID:          "h4",
				Title:       "Show delivery fees earlier",
				Description: "If we display delivery costs on details page, drop-off decreases because expectations are set.",
				ImageLabel:  "Delivery fees mock",
			},
		},
	},
}

// FindHypothesis resolves a hypothesis id to a Choice. HypothesisIndex is
// 1-based within its problem.
func FindHypothesis(id string) (Choice, bool) {
	for _, p := range Problems {
		for i, h := range p.Hypotheses {
			if h.ID == id {
				return Choice{
					ProblemID:       p.ID,
					ProblemTitle:    p.Title,
					HypothesisID:    h.ID,
					HypothesisTitle: h.Title,
					HypothesisIndex: i + 1,
				}, true
			}
		}
	}
	return Choice{}, false
}
