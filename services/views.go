package services

import "screen-ai/models"

// Antwortobjekte: Modell plus abgeleitete Felder, die nie gespeichert werden.

type ProjectView struct {
	models.Project
	ExperimentCount int64 `json:"experiment_count"`
}

type ExperimentView struct {
	models.Experiment
	PlateCount int64 `json:"plate_count"`
}

type PlateView struct {
	models.Plate
	WellCount  int64  `json:"well_count"`
	Capacity   int    `json:"capacity"`
	FormatName string `json:"format_name"`
}

type WellView struct {
	models.Well
	RowLabel    string `json:"row_label"`
	ColumnLabel string `json:"column_label"`
	Position    string `json:"position"`
}

// Thumbnail ist ein Eintrag der Vorschaubild-Liste eines Wells.
type Thumbnail struct {
	ID           string  `json:"id"`
	Channel      string  `json:"channel"`
	ChannelIndex int     `json:"channel_index"`
	FieldIndex   int     `json:"field_index"`
	ThumbnailURL *string `json:"thumbnail_url"`
}

func newPlateView(p *models.Plate, wells int64) PlateView {
	return PlateView{Plate: *p, WellCount: wells, Capacity: p.Capacity(), FormatName: p.FormatName()}
}

func newWellView(w *models.Well) WellView {
	return WellView{Well: *w, RowLabel: w.RowLabel(), ColumnLabel: w.ColumnLabel(), Position: w.Position()}
}
