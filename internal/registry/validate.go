package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/talegrid/internal/config"
	"github.com/specialistvlad/talegrid/internal/ctxlog"
)

// Validate checks that every handler and router a model refers to is
// registered. All problems are reported together.
func (r *Registry) Validate(ctx context.Context, model *config.Model) error {
	var errs []string
	for _, g := range model.Graphs {
		for _, n := range g.Nodes {
			if _, ok := r.handlers[n.Handler]; !ok {
				errs = append(errs, fmt.Sprintf("graph '%s', node '%s': unknown handler '%s'", g.Name, n.Name, n.Handler))
			}
		}
		for _, rt := range g.Routes {
			if _, ok := r.routers[rt.Router]; !ok {
				errs = append(errs, fmt.Sprintf("graph '%s', route from '%s': unknown router '%s'", g.Name, rt.From, rt.Router))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	ctxlog.FromContext(ctx).Debug("Registry validation passed.", "graphs", len(model.Graphs))
	return nil
}
