package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/contravento/routemap/internal/models"
)

// tripItem wraps a Trip for use in a list
type tripItem struct {
	trip models.Trip
}

// FilterValue implements list.Item
func (t tripItem) FilterValue() string {
	return t.trip.Title
}

// Title implements list.DefaultItem
func (t tripItem) Title() string {
	return t.trip.Title
}

// Description implements list.DefaultItem
func (t tripItem) Description() string {
	if t.trip.Description != "" {
		return t.trip.Description
	}
	return fmt.Sprintf("creado el %s", t.trip.CreatedAt.Format("02/01/2006"))
}

// createTripList creates a list.Model from trips
func createTripList(items []models.Trip, width, height int) list.Model {
	listItems := make([]list.Item, len(items))
	for i, t := range items {
		listItems[i] = tripItem{trip: t}
	}

	l := list.New(listItems, list.NewDefaultDelegate(), width, height)
	l.Title = "Tus viajes"
	l.SetShowHelp(true)
	l.SetFilteringEnabled(true)

	return l
}
