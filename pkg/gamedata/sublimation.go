package gamedata

type Sublimation struct {
	Name        string   `json:"name"`
	Colors      []string `json:"colors"`
	Description string   `json:"description"`
	Rarity      []string `json:"rarity"`
	Effect      string   `json:"effect"`
	MinLevel    int      `json:"minLevel"`
	MaxLevel    int      `json:"maxLevel"`
	Step        int      `json:"step"`
	Obtenation  string   `json:"obtenation"`
	Category    string   `json:"category"`
	Values      []Value  `json:"values"`
	ItemID      int      `json:"itemId,omitempty"`
}

// Value scales a description token with the sublimation level.
type Value struct {
	Token     string  `json:"token,omitempty"`
	Base      float64 `json:"base"`
	Increment float64 `json:"increment"`
}

// DefaultTokens are assigned to values that do not name their token.
var DefaultTokens = []string{"X", "Y", "Z", "W"}

// TokenAt returns the token of the i-th value, falling back to the
// positional default.
func (s *Sublimation) TokenAt(i int) string {
	if i < 0 || i >= len(s.Values) {
		return ""
	}
	if t := s.Values[i].Token; t != "" {
		return t
	}
	if i < len(DefaultTokens) {
		return DefaultTokens[i]
	}
	return ""
}
