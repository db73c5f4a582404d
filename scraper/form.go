package scraper

import (
	"log"
	"strconv"
	"strings"

	"github.com/playwright-community/playwright-go"

	"sslv_watcher/models"
)

// formField is one (selector, value) filter interaction. The site's
// filter set can drift independently of this crawler, so every field is
// filled best-effort: a timeout, a missing option or a verify mismatch
// never blocks the remaining fields.
type formField struct {
	selector string
	value    string
	isSelect bool
}

// formFields maps the criteria's set bounds onto filter form fields.
// Unset bounds produce no interaction at all.
func formFields(criteria *models.SearchCriteria) []formField {
	var fields []formField
	add := func(selector string, v *int, isSelect bool) {
		if v != nil {
			fields = append(fields, formField{selector: selector, value: strconv.Itoa(*v), isSelect: isSelect})
		}
	}
	add(selMinPrice, criteria.MinPrice, false)
	add(selMaxPrice, criteria.MaxPrice, false)
	add(selMinRooms, criteria.MinRooms, true)
	add(selMaxRooms, criteria.MaxRooms, true)
	add(selMinArea, criteria.MinArea, false)
	add(selMaxArea, criteria.MaxArea, false)
	return fields
}

// FillForm applies the criteria's bounds to the loaded filter form,
// field by field, with verification and a single retry per field.
func FillForm(page playwright.Page, criteria *models.SearchCriteria) {
	for _, field := range formFields(criteria) {
		fillField(page, field)
	}
}

func fillField(page playwright.Page, field formField) {
	loc := page.Locator(field.selector)

	if err := loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(filterWaitMS),
	}); err != nil {
		log.Printf("Field %s not visible, skipping: %v", field.selector, err)
		return
	}

	if err := loc.ScrollIntoViewIfNeeded(); err != nil {
		log.Printf("Could not scroll %s into view: %v", field.selector, err)
	}
	page.WaitForTimeout(actionDelayMS / 2)

	if field.isSelect {
		if !optionExists(loc, field.value) {
			log.Printf("Option %s not found in select %s, skipping", field.value, field.selector)
			return
		}
		if _, err := loc.SelectOption(playwright.SelectOptionValues{
			ValuesOrLabels: &[]string{field.value},
		}); err != nil {
			log.Printf("Failed to select %s on %s: %v", field.value, field.selector, err)
			return
		}
	} else {
		if err := loc.Fill(field.value); err != nil {
			log.Printf("Failed to fill %s: %v", field.selector, err)
			return
		}
	}

	page.WaitForTimeout(actionDelayMS / 2)
	verifyField(page, loc, field)
}

// verifyField re-reads the field and retries exactly once on mismatch.
// Verification failures themselves (a navigation may have started) are
// logged and ignored.
func verifyField(page playwright.Page, loc playwright.Locator, field formField) {
	got, err := loc.InputValue()
	if err != nil {
		log.Printf("Could not verify field %s, continuing anyway: %v", field.selector, err)
		return
	}
	if got == field.value {
		return
	}

	log.Printf("Field %s value mismatch. Expected: %s, Got: %s", field.selector, field.value, got)
	page.WaitForTimeout(actionDelayMS / 2)

	if field.isSelect {
		if _, err := loc.SelectOption(playwright.SelectOptionValues{
			ValuesOrLabels: &[]string{field.value},
		}); err != nil {
			log.Printf("Retry select %s failed: %v", field.selector, err)
		}
	} else {
		if err := loc.Fill(field.value); err != nil {
			log.Printf("Retry fill %s failed: %v", field.selector, err)
		}
	}
}

// optionExists checks the requested value against the select's options,
// matching either the value attribute or the visible text.
func optionExists(loc playwright.Locator, value string) bool {
	options, err := loc.Locator("option").All()
	if err != nil {
		return false
	}
	for _, opt := range options {
		if v, err := opt.GetAttribute("value"); err == nil && v == value {
			return true
		}
		if text, err := opt.TextContent(); err == nil && strings.TrimSpace(text) == value {
			return true
		}
	}
	return false
}
