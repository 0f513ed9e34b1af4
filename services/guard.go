package services

import (
	"context"
	"fmt"

	"screen-ai/apperr"
	"screen-ai/models"
	"screen-ai/repos"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GuardState ist das Ergebnis eines Guard-Aufrufs.
type GuardState int

const (
	Unresolved GuardState = iota
	Resolved
	Denied
)

func (s GuardState) String() string {
	switch s {
	case Resolved:
		return "resolved"
	case Denied:
		return "denied"
	default:
		return "unresolved"
	}
}

// Ref adressiert eine Ressource in der Besitzkette.
type Ref struct {
	Kind models.ResourceKind
	ID   string
}

func PlateRef(id string) Ref      { return Ref{Kind: models.KindPlate, ID: id} }
func ProjectRef(id string) Ref    { return Ref{Kind: models.KindProject, ID: id} }
func ExperimentRef(id string) Ref { return Ref{Kind: models.KindExperiment, ID: id} }
func WellRef(id string) Ref       { return Ref{Kind: models.KindWell, ID: id} }

// Guard prüft, ob eine Ressource über die Kette
// Well -> Plate -> Experiment -> Project dem anfragenden Benutzer gehört.
// Eine einzige Abfrage verbindet alle Ebenen bis zu projects und filtert auf owner_id.
type Guard struct {
	Logger *zap.Logger
}

func NewGuard(logger *zap.Logger) *Guard {
	return &Guard{Logger: logger.With(zap.String("service", "Guard"))}
}

// Resolve läuft von target nach oben bis zum Projekt. within sind Vorfahren,
// die auf derselben Kette liegen müssen (z.B. das Experiment in der URL einer Platte).
// Fehlt ein Glied oder gehört das Projekt jemand anderem, ist das Ergebnis Denied.
func (g *Guard) Resolve(ctx context.Context, tx *gorm.DB, userID string, target Ref, within ...Ref) (GuardState, error) {
	table := target.Kind.Table()
	if table == "" {
		return Unresolved, fmt.Errorf("guard: unknown resource kind %q", target.Kind)
	}
	q, err := repos.JoinUp(tx.WithContext(ctx).Table(table), target.Kind, models.KindProject)
	if err != nil {
		return Unresolved, err
	}
	q = q.Where(table+".id = ?", target.ID).Where("projects.owner_id = ?", userID)
	for _, anc := range within {
		if !isAncestor(anc.Kind, target.Kind) {
			return Unresolved, fmt.Errorf("guard: %s is not an ancestor of %s", anc.Kind, target.Kind)
		}
		q = q.Where(anc.Kind.Table()+".id = ?", anc.ID)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return Unresolved, err
	}
	if n == 0 {
		g.Logger.Debug("Ownership denied",
			zap.String("kind", string(target.Kind)), zap.String("id", target.ID), zap.String("user_id", userID))
		return Denied, nil
	}
	return Resolved, nil
}

// Check ist Resolve mit Fehlerabbildung: Denied wird immer zu NotFound,
// nie zu Forbidden.
func (g *Guard) Check(ctx context.Context, tx *gorm.DB, userID string, target Ref, within ...Ref) error {
	state, err := g.Resolve(ctx, tx, userID, target, within...)
	if err != nil {
		return err
	}
	if state != Resolved {
		return apperr.NotFound(target.Kind.Label())
	}
	return nil
}

func isAncestor(anc, kind models.ResourceKind) bool {
	for cur := kind; ; {
		if cur == anc {
			return true
		}
		link, ok := cur.Parent()
		if !ok {
			return false
		}
		cur = link.Parent
	}
}
