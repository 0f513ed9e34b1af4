package models

import "strings"

// ResourceKind benennt eine Ebene der Besitzkette
// User -> Project -> Experiment -> Plate -> Well -> {Image, Analysis}.
type ResourceKind string

const (
	KindProject    ResourceKind = "project"
	KindExperiment ResourceKind = "experiment"
	KindPlate      ResourceKind = "plate"
	KindWell       ResourceKind = "well"
	KindImage      ResourceKind = "image"
	KindAnalysis   ResourceKind = "analysis"
	KindCurve      ResourceKind = "dose_response_curve"
)

// Link beschreibt die Fremdschlüsselkante einer Ebene zu ihrem Elternteil.
type Link struct {
	ParentKey string
	Parent    ResourceKind
}

var tables = map[ResourceKind]string{
	KindProject:    "projects",
	KindExperiment: "experiments",
	KindPlate:      "plates",
	KindWell:       "wells",
	KindImage:      "images",
	KindAnalysis:   "analyses",
	KindCurve:      "dose_response_curves",
}

var parents = map[ResourceKind]Link{
	KindExperiment: {ParentKey: "project_id", Parent: KindProject},
	KindPlate:      {ParentKey: "experiment_id", Parent: KindExperiment},
	KindWell:       {ParentKey: "plate_id", Parent: KindPlate},
	KindImage:      {ParentKey: "well_id", Parent: KindWell},
	KindAnalysis:   {ParentKey: "well_id", Parent: KindWell},
	KindCurve:      {ParentKey: "experiment_id", Parent: KindExperiment},
}

// Table liefert den Tabellennamen oder "" für unbekannte Arten.
func (k ResourceKind) Table() string { return tables[k] }

// Parent liefert die Kante zum Elternteil; Projekte haben keine.
func (k ResourceKind) Parent() (Link, bool) {
	l, ok := parents[k]
	return l, ok
}

// Label ist der Name für Fehlermeldungen, z.B. "dose response curve".
func (k ResourceKind) Label() string {
	return strings.ReplaceAll(string(k), "_", " ")
}
