package interactive

import (
	"os"
	"strconv"
	"strings"

	"reaper/pkg/logging"

	"github.com/ktr0731/go-fuzzyfinder"
)

const (
	defaultDisplayItems = 10
	maxDisplayItems     = 20
)

// getDisplayItemCount returns the number of items to display in the fuzzy finder
func getDisplayItemCount() int {
	heightStr := strings.TrimSpace(os.Getenv("REAPER_SELECTOR_HEIGHT"))
	if heightStr == "" {
		return defaultDisplayItems
	}

	height, err := strconv.Atoi(heightStr)
	if err != nil || height < 1 {
		logging.LogWarn("Invalid REAPER_SELECTOR_HEIGHT value '%s', using default of %d", heightStr, defaultDisplayItems)
		return defaultDisplayItems
	}

	if height > maxDisplayItems {
		logging.LogWarn("REAPER_SELECTOR_HEIGHT of %d is too large, limiting to %d", height, maxDisplayItems)
		return maxDisplayItems
	}

	return height
}

// FuzzyFindMulti shows a multi-select fuzzy finder (Tab toggles an item)
// and returns the chosen indexes.
func FuzzyFindMulti(items interface{}, itemFunc func(i int) string, header string, previewFunc func(i, w, h int) string) ([]int, error) {
	totalHeight := getDisplayItemCount() + 5

	return fuzzyfinder.FindMulti(items,
		itemFunc,
		fuzzyfinder.WithCursorPosition(fuzzyfinder.CursorPositionBottom),
		fuzzyfinder.WithPromptString("🔍 Type to search, Tab to select > "),
		fuzzyfinder.WithHeader(header),
		fuzzyfinder.WithMode(fuzzyfinder.ModeSmart),
		fuzzyfinder.WithHeight(totalHeight),
		fuzzyfinder.WithHorizontalAlignment(fuzzyfinder.AlignLeft),
		fuzzyfinder.WithBorder(),
		fuzzyfinder.WithPreviewWindow(previewFunc),
	)
}
