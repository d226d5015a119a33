// Package authzrules provides a Casbin-backed implementation of
// ctx.AddonPolicy: the addon install/uninstall rules are expressed as
// policy rows rather than inline Go conditionals, so a deployment can
// override them (a managed fleet that wants to protect additional
// addons, say) without a code change.
package authzrules

import (
	_ "embed"
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
	"github.com/tomtom215/catalogcore/pkg/ctx"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// subjects used as the casbin "sub" for each policy row. "addon" is the
// baseline allow; "protected-addon"/"locked-profile" are the deny rows
// that the matcher combines with the baseline via the model's
// allow-unless-denied effect.
const (
	subAddon          = "addon"
	subProtectedAddon = "protected-addon"
	subLockedProfile  = "locked-profile"

	actInstall   = "install"
	actUninstall = "uninstall"
)

// Enforcer wraps a casbin.Enforcer loaded from the embedded model/policy
// pair (or an operator-supplied override) and implements ctx.AddonPolicy.
type Enforcer struct {
	e *casbin.Enforcer
}

// New builds an Enforcer from the embedded model and policy. modelPath
// and policyPath, if non-empty, override the embedded defaults so an
// operator can layer additional deny rows (e.g. protecting a
// site-specific addon) without recompiling.
func New(modelPath, policyPath string) (*Enforcer, error) {
	m, err := loadModel(modelPath)
	if err != nil {
		return nil, fmt.Errorf("authzrules: load model: %w", err)
	}

	var e *casbin.Enforcer
	if policyPath != "" {
		e, err = casbin.NewEnforcer(m, policyPath)
	} else {
		a := newStringAdapter(embeddedPolicy)
		e, err = casbin.NewEnforcer(m, a)
	}
	if err != nil {
		return nil, fmt.Errorf("authzrules: new enforcer: %w", err)
	}
	return &Enforcer{e: e}, nil
}

func loadModel(modelPath string) (model.Model, error) {
	if modelPath != "" {
		return model.NewModelFromFile(modelPath)
	}
	return model.NewModelFromString(embeddedModel)
}

// CanInstall implements ctx.AddonPolicy.
func (en *Enforcer) CanInstall(existing []catalogtypes.Descriptor, addon catalogtypes.Descriptor, locked bool) error {
	if locked {
		if ok, _ := en.e.Enforce(subLockedProfile, actInstall, actInstall); !ok {
			return ctx.NewPolicyError(ctx.UserAddonsAreLocked)
		}
	}
	for _, d := range existing {
		if d.Equal(addon) {
			return ctx.NewPolicyError(ctx.AddonAlreadyInstalled)
		}
	}
	if addon.Manifest.BehaviorHints.ConfigurationRequired {
		return ctx.NewPolicyError(ctx.AddonConfigurationRequired)
	}
	ok, err := en.e.Enforce(subAddon, actInstall, actInstall)
	if err != nil {
		return fmt.Errorf("authzrules: enforce install: %w", err)
	}
	if !ok {
		return ctx.NewPolicyError(ctx.UserAddonsAreLocked)
	}
	return nil
}

// CanUninstall implements ctx.AddonPolicy.
func (en *Enforcer) CanUninstall(addon catalogtypes.Descriptor, locked bool) error {
	if locked {
		if ok, _ := en.e.Enforce(subLockedProfile, actUninstall, actUninstall); !ok {
			return ctx.NewPolicyError(ctx.UserAddonsAreLocked)
		}
	}
	if addon.Flags.Protected {
		if ok, _ := en.e.Enforce(subProtectedAddon, actUninstall, actUninstall); !ok {
			return ctx.NewPolicyError(ctx.AddonIsProtected)
		}
	}
	ok, err := en.e.Enforce(subAddon, actUninstall, actUninstall)
	if err != nil {
		return fmt.Errorf("authzrules: enforce uninstall: %w", err)
	}
	if !ok {
		return ctx.NewPolicyError(ctx.AddonIsProtected)
	}
	return nil
}
