package standingsdomain

import "fmt"

const (
	// NoModel is shown when no profile file could be matched to a player.
	NoModel = "N/A"
	// UnknownModel is used when a profile matched but names no model.
	UnknownModel = "Unknown Model"
)

// Player is a single row of the final standings file.
type Player struct {
	Rank        int     `json:"rank"`
	Name        string  `json:"player"`
	RatingMu    float64 `json:"rating_mu"`
	RatingSigma float64 `json:"rating_sigma"`
	Wins        int     `json:"wins"`
	Draws       int     `json:"draws"`
	Losses      int     `json:"losses"`
	Games       int     `json:"games"`
	WinRate     float64 `json:"win_rate"`
}

// RatingLabel renders the rating as "mu ± sigma".
func (p Player) RatingLabel() string {
	return fmt.Sprintf("%s ± %s", FormatNumber(p.RatingMu), FormatNumber(p.RatingSigma))
}

// WinRateLabel renders the win rate as a percentage with one decimal.
func (p Player) WinRateLabel() string {
	return fmt.Sprintf("%.1f%%", p.WinRate*100)
}

// RecordLabel renders the record as "<W>W / <D>D / <L>L".
func (p Player) RecordLabel() string {
	return fmt.Sprintf("%dW / %dD / %dL", p.Wins, p.Draws, p.Losses)
}

// Param is a single model parameter taken from a nested profile.
type Param struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Profile is the optional per-player configuration matched from the profile
// directory.
type Profile struct {
	Model       string         `json:"model"`
	Strategy    string         `json:"strategy,omitempty"`
	Prompt      string         `json:"prompt,omitempty"`
	ModelParams []Param        `json:"model_params,omitempty"`
	Source      string         `json:"source,omitempty"`
	Raw         map[string]any `json:"-"`
}

// NoProfile is the sentinel returned when no profile file matched.
func NoProfile() Profile {
	return Profile{Model: NoModel}
}

// Matched reports whether the profile came from a file.
func (p Profile) Matched() bool {
	return p.Raw != nil
}

// Entry is a standings row enriched with its profile.
type Entry struct {
	Player
	Profile Profile `json:"profile"`
}

// ModelLabel returns the model name or NoModel when none is known.
func (e Entry) ModelLabel() string {
	if e.Profile.Model == "" {
		return NoModel
	}
	return e.Profile.Model
}
