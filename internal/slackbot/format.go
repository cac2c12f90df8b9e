package slackbot

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/slack-go/slack"

	"github.com/stockyardhq/stockyard/pkg/inventory"
)

// maxListedItems caps how many items a single Slack message lists.
const maxListedItems = 10

const errorFallback = "Sorry, something went wrong answering that."

var mentionPattern = regexp.MustCompile(`<@[A-Z0-9]+>`)

// stripMention removes <@UXXXX> tokens so only the question remains.
func stripMention(text string) string {
	return strings.TrimSpace(mentionPattern.ReplaceAllString(text, ""))
}

// inr formats a rupee amount with the thousands separators Slack users
// expect, dropping the decimals for whole amounts.
func inr(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimSuffix(s, ".00")
	intPart, frac, _ := strings.Cut(s, ".")
	var out []byte
	for i, c := range []byte(intPart) {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if frac != "" {
		return "₹" + string(out) + "." + frac
	}
	return "₹" + string(out)
}

func header(title string) slack.Block {
	return slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, title, false, false))
}

func section(markdown string) slack.Block {
	return slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, markdown, false, false), nil, nil)
}

// summaryBlocks renders the store-wide rollup.
func summaryBlocks(s *inventory.Summary) []slack.Block {
	text := fmt.Sprintf(
		"*Items:* %d across %d brands and %d categories\n"+
			"*Total stock:* %d units worth %s\n"+
			"*Average price:* %s\n"+
			"*Alerts:* %d low stock, %d out of stock",
		s.TotalItems, s.TotalBrands, s.TotalCategories,
		s.TotalQuantity, inr(s.TotalValue),
		inr(s.AveragePrice),
		s.LowStockItems, s.OutOfStockItems,
	)
	return []slack.Block{
		header("Inventory Summary"),
		section(text),
	}
}

// itemBlocks renders an item listing, capped at maxListedItems.
func itemBlocks(title string, items []inventory.Item, total int) []slack.Block {
	if title == "" {
		title = "Inventory Results"
	}
	blocks := []slack.Block{header(title)}

	if len(items) == 0 {
		blocks = append(blocks, section("No matching items found."))
		return blocks
	}

	shown := items
	if len(shown) > maxListedItems {
		shown = shown[:maxListedItems]
	}

	var sb strings.Builder
	for _, item := range shown {
		desc := item.Description
		if desc == "" {
			desc = "(no description)"
		}
		fmt.Fprintf(&sb, "*%s* · %s\n%s | %s | qty %d | %s\n",
			item.PartNumber, desc,
			item.Brand, inr(item.ListPrice), item.Quantity, item.StockStatus())
	}
	blocks = append(blocks, section(strings.TrimRight(sb.String(), "\n")))

	if total > len(shown) {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("Showing %d of %d matches.", len(shown), total), false, false)))
	}
	return blocks
}

func errorBlocks() []slack.Block {
	return []slack.Block{section(errorFallback)}
}
