package narrate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperlocal/bhraman/internal/config"
	"github.com/hyperlocal/bhraman/internal/models"
	"github.com/hyperlocal/bhraman/internal/prefs"
	"github.com/hyperlocal/bhraman/pkg/utils"
)

// Narrator generates conversational answers and route narrations. A failed or
// slow generation call falls back to templates, so both public methods always
// return text.
type Narrator struct {
	client   *client
	language string
	logger   *zap.Logger
}

// New creates a narrator from config.
func New(cfg *config.NarrationConfig, logger *zap.Logger) *Narrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := time.Duration(cfg.TimeoutSec * float64(time.Second))
	return &Narrator{
		client:   newClient(cfg.Endpoint, cfg.Model, timeout),
		language: cfg.Language,
		logger:   logger,
	}
}

// ChatAnswer produces a 2-3 sentence answer grounded in the top candidates.
// language overrides the configured answer language when non-empty.
func (n *Narrator) ChatAnswer(ctx context.Context, question string, items []models.ScoredPlace, pref prefs.Preferences, hour *int, language string) string {
	if language == "" {
		language = n.language
	}
	prompt := chatPrompt(question, items, pref, hour, language)
	txt, err := n.client.generate(ctx, prompt)
	if err == nil && txt != "" {
		return utils.Truncate(txt, 500)
	}
	if err != nil {
		n.logger.Debug("narration call failed, using template", zap.Error(err))
	}
	return fallbackAnswer(items, pref)
}

// RouteNarration produces a short driver-style narration for route stops.
func (n *Narrator) RouteNarration(ctx context.Context, stops []models.ScoredPlace, pref prefs.Preferences, weather string, hour *int, tempC *float64) string {
	prompt := routePrompt(stops, pref, weather, hour, tempC)
	txt, err := n.client.generate(ctx, prompt)
	if err == nil && txt != "" {
		return txt
	}
	if err != nil {
		n.logger.Debug("route narration call failed, using template", zap.Error(err))
	}
	return fallbackRouteNarration(stops)
}

func chatPrompt(question string, items []models.ScoredPlace, pref prefs.Preferences, hour *int, language string) string {
	sys := "You are a knowledgeable Kolkata local guide. " +
		"Reply in 2-3 sentences. " +
		"Use the provided History and Personal Tips in the context to make your answer unique and valuable. " +
		"Don't just list facts, weave them into a suggestion."
	if language != "" && language != "en" {
		sys += fmt.Sprintf(" Answer in %s.", language)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "System: %s\n", sys)
	fmt.Fprintf(&b, "User: %s\n", question)
	fmt.Fprintf(&b, "Preferences: %s, hour=%s\n", prefsText(pref), hourText(hour))
	fmt.Fprintf(&b, "Context candidates:\n%s\n", contextLines(items))
	b.WriteString("Assistant:")
	return b.String()
}

// contextLines formats up to 4 candidates as prompt context, each with its
// description, history and tips snippets plus timing and price hints.
func contextLines(items []models.ScoredPlace) string {
	var lines []string
	for i, it := range items {
		if i >= 4 {
			break
		}
		desc := utils.Truncate(it.Description, 140)
		hist := utils.Truncate(it.History, 100)
		tips := utils.Truncate(it.PersonalTips, 100)

		var extra []string
		if it.BestTime != "" {
			extra = append(extra, "best: "+it.BestTime)
		}
		if it.Price != "" {
			extra = append(extra, "price: "+it.Price)
		}
		if it.OpeningHours != "" {
			extra = append(extra, "hours: "+it.OpeningHours)
		}

		info := desc
		if hist != "" {
			info += " History: " + hist
		}
		if tips != "" {
			info += " Tip: " + tips
		}
		if len(extra) > 0 {
			info += " (" + strings.Join(extra, ", ") + ")"
		}

		name := it.Name
		if name == "" {
			name = "Unknown"
		}
		lines = append(lines, fmt.Sprintf("- %s (%s): %s", name, it.Category, info))
	}
	return strings.Join(lines, "\n")
}

func routePrompt(stops []models.ScoredPlace, pref prefs.Preferences, weather string, hour *int, tempC *float64) string {
	var names []string
	teaPresent := false
	for i, it := range stops {
		if i < 3 && it.Name != "" {
			names = append(names, it.Name)
		}
		if strings.Contains(it.JoinedTags(), "tea") {
			teaPresent = true
		}
	}
	prompt := "You are a seasoned Kolkata driver. Be concise, warm, and local. " +
		"Suggest interesting stops on the way in 2 short sentences max. " +
		fmt.Sprintf("Consider preferences: %s. ", prefsText(pref)) +
		fmt.Sprintf("Context: weather=%s, hour=%s, temp_c=%s. ", weather, hourText(hour), tempText(tempC)) +
		fmt.Sprintf("Candidate stops: %s. ", strings.Join(names, ", "))
	if teaPresent {
		prompt += "If a tea stall is relevant, mention exactly one."
	}
	return prompt
}

func prefsText(pref prefs.Preferences) string {
	return fmt.Sprintf("mood=%s, interests=%s, time_pref=%s",
		pref.Mood, strings.Join(pref.Interests, ","), pref.TimePreference)
}

func hourText(hour *int) string {
	if hour == nil {
		return ""
	}
	return fmt.Sprintf("%d", *hour)
}

func tempText(tempC *float64) string {
	if tempC == nil {
		return ""
	}
	return fmt.Sprintf("%g", *tempC)
}

// fallbackAnswer is the rule-based answer used when generation is unavailable.
func fallbackAnswer(items []models.ScoredPlace, pref prefs.Preferences) string {
	if len(items) == 0 {
		return "I couldn't find much yet. Try asking for tea stalls, heritage walks, or riverside spots in Kolkata."
	}
	top := items[0]
	name := top.Name
	if name == "" {
		name = "a spot"
	}
	desc := utils.Truncate(top.Description, 120)

	histSnip := ""
	if top.History != "" {
		histSnip = " Did you know? " + top.History
	}
	tipSnip := ""
	if top.PersonalTips != "" {
		tipSnip = " Insider tip: " + top.PersonalTips
	}
	moodHint := ""
	switch strings.ToLower(pref.Mood) {
	case "calm", "relaxed", "peaceful":
		moodHint = " It's a peaceful choice."
	}

	base := fmt.Sprintf("You might like %s. %s%s%s%s", name, desc, histSnip, tipSnip, moodHint)
	if len(items) > 1 && items[1].Name != "" {
		base += fmt.Sprintf(" You could also check out %s nearby.", items[1].Name)
	}
	return utils.Truncate(base, 450)
}

// fallbackRouteNarration stitches a sentence for each of the top two stops.
func fallbackRouteNarration(stops []models.ScoredPlace) string {
	var parts []string
	for i, it := range stops {
		if i >= 2 {
			break
		}
		tip := utils.Truncate(it.Description, 80)
		parts = append(parts, fmt.Sprintf("On your way you can stop by %s. %s", it.Name, tip))
	}
	return strings.Join(parts, " ")
}
