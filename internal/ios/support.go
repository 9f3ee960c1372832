package ios

import (
	"strings"

	"github.com/goplus/extdeps/internal/deperr"
	"github.com/goplus/extdeps/internal/symbols"
	"github.com/goplus/extdeps/pkgs/platform"
)

const (
	// SupportSymbol is defined for the iOS target while support is enabled.
	SupportSymbol = "ARCORE_EXTENSIONS_IOS_SUPPORT"
	// BaseTemplate holds the dependencies every iOS build with support needs.
	BaseTemplate = "ARCoreiOSDependencies"
)

// SetSupportEnabled turns iOS support on or off: the support symbol in
// the iOS define-symbol list and the base dependency template.
//
// Enabling requires exactly one resolver plugin in the project. Without
// it nothing is changed.
func (r *Reconciler) SetSupportEnabled(enabled bool) error {
	if enabled {
		if err := r.checkPlugin(); err != nil {
			r.logger.Error("ios support not enabled", "err", err)
			r.metrics.Failed(deperr.KindOf(err).String())
			return err
		}
	}

	if r.symbols != nil {
		group := platform.IOS.Group()
		changed, err := symbols.Toggle(r.symbols, group, SupportSymbol, enabled)
		if err != nil {
			r.metrics.Failed(deperr.KindOf(err).String())
			return err
		}
		if changed {
			r.logger.Info("updated define symbols", "group", group, "symbol", SupportSymbol, "defined", enabled)
		}
	}

	if err := r.SetEnabled(enabled, BaseTemplate); err != nil {
		r.metrics.Failed(deperr.KindOf(err).String())
		return err
	}
	return nil
}

func (r *Reconciler) checkPlugin() error {
	if r.plugins == nil {
		return deperr.Errorf(deperr.KindMissingResource, "ios.SetSupportEnabled", ResolverPluginPattern,
			"no resolver plugin locator")
	}
	found, err := r.plugins.Plugins()
	if err != nil {
		return err
	}
	switch len(found) {
	case 0:
		return deperr.Errorf(deperr.KindMissingResource, "ios.SetSupportEnabled", ResolverPluginPattern,
			"resolver plugin not found")
	case 1:
		r.logger.Debug("found resolver plugin", "path", found[0])
		return nil
	}
	return deperr.Errorf(deperr.KindDuplicateResource, "ios.SetSupportEnabled", ResolverPluginPattern,
		"%d resolver plugins found, remove all but one: %s", len(found), strings.Join(found, ", "))
}
