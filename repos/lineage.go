package repos

import (
	"fmt"

	"screen-ai/models"

	"gorm.io/gorm"
)

// JoinUp verbindet die Tabelle von from über die Elternkanten mit der
// Tabelle von to. from == to fügt keine Joins hinzu.
func JoinUp(q *gorm.DB, from, to models.ResourceKind) (*gorm.DB, error) {
	for cur := from; cur != to; {
		link, ok := cur.Parent()
		if !ok {
			return nil, fmt.Errorf("%s is not below %s", from, to)
		}
		parent := link.Parent.Table()
		q = q.Joins(fmt.Sprintf("JOIN %s ON %s.id = %s.%s", parent, parent, cur.Table(), link.ParentKey))
		cur = link.Parent
	}
	return q, nil
}
