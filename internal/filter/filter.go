// Package filter derives the visible page of a list from the full collection
// and the current filter controls. Everything here is pure: same collection,
// same controls, same previous state in, same answer out.
package filter

import (
	"strconv"
	"strings"

	"relic-exchange/internal/models"
)

// PageSize is the fixed number of rows per page.
const PageSize = 5

// Sale filter settings.
const (
	SaleAny      = ""
	SaleListed   = "listed"
	SaleUnlisted = "unlisted"
)

// Row is the projection the predicates see. Inventory items and market
// listings both flatten into it.
type Row struct {
	ID          string
	DisplayName string
	Rarity      string
	ForSale     bool
	Price       int
	Owner       string
}

// Controls are the raw values of the filter inputs. Empty means
// unconstrained. Price bounds stay strings because they come from text
// fields; blank or unparseable means an open bound.
type Controls struct {
	Search   string
	Rarity   string
	Sale     string
	PriceMin string
	PriceMax string
	Seller   string
}

// State is the persisted filter state for one list: the controls as of the
// last evaluation plus the current page.
type State struct {
	Controls Controls
	Page     int
}

// NewState starts on page 1 with no filters.
func NewState() State {
	return State{Page: 1}
}

// Pagination describes the slice that came out of Apply.
type Pagination struct {
	Page       int
	TotalPages int
	TotalCount int
}

// Apply filters rows through the controls and slices out the visible page.
//
// Page handling, in order: any control differing from the previous evaluation
// resets the page to 1; after filtering, a page beyond the last is reset to 1
// as well. An empty result keeps Page at 1 and reports TotalPages 0.
func Apply(rows []Row, controls Controls, prev State) ([]Row, State, Pagination) {
	page := prev.Page
	if controls != prev.Controls || page < 1 {
		page = 1
	}

	var filtered []Row
	for _, row := range rows {
		if matches(row, controls) {
			filtered = append(filtered, row)
		}
	}

	totalPages := (len(filtered) + PageSize - 1) / PageSize
	if page > totalPages {
		page = 1
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	next := State{Controls: controls, Page: page}
	return filtered[start:end], next, Pagination{Page: page, TotalPages: totalPages, TotalCount: len(filtered)}
}

// Next advances one page, a no-op on the last page (or when there are no
// pages). It never wraps.
func (s State) Next(totalPages int) State {
	if s.Page < totalPages {
		s.Page++
	}
	return s
}

// Prev goes back one page, a no-op on page 1. It never wraps.
func (s State) Prev() State {
	if s.Page > 1 {
		s.Page--
	}
	return s
}

// matches applies every active predicate conjunctively.
func matches(row Row, c Controls) bool {
	if c.Search != "" && !containsFold(row.DisplayName, c.Search) {
		return false
	}
	if c.Rarity != "" && row.Rarity != c.Rarity {
		return false
	}
	switch c.Sale {
	case SaleListed:
		if !row.ForSale {
			return false
		}
	case SaleUnlisted:
		if row.ForSale {
			return false
		}
	}
	if min, ok := parseBound(c.PriceMin); ok && row.Price < min {
		return false
	}
	if max, ok := parseBound(c.PriceMax); ok && row.Price > max {
		return false
	}
	if c.Seller != "" && !containsFold(row.Owner, c.Seller) {
		return false
	}
	return true
}

// parseBound turns a price field into an inclusive bound. Blank or
// unparseable input leaves the bound open.
func parseBound(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// ItemRows projects inventory items for filtering.
func ItemRows(items []models.Item) []Row {
	rows := make([]Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, Row{
			ID:          it.ID,
			DisplayName: it.Name.Display(),
			Rarity:      it.Rarity,
			ForSale:     it.ForSale,
			Price:       it.Price,
			Owner:       it.Owner,
		})
	}
	return rows
}

// ListingRows projects market listings for filtering. Listings are for sale
// by definition.
func ListingRows(listings []models.MarketListing) []Row {
	rows := make([]Row, 0, len(listings))
	for _, l := range listings {
		rows = append(rows, Row{
			ID:          l.ID,
			DisplayName: l.Name.Display(),
			Rarity:      l.Rarity,
			ForSale:     true,
			Price:       l.Price,
			Owner:       l.Owner,
		})
	}
	return rows
}
