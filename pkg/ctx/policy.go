package ctx

import "github.com/tomtom215/catalogcore/pkg/catalogtypes"

// AddonPolicy enforces the addon install/uninstall invariants: protected
// addons cannot be uninstalled, the addon list can be locked entirely,
// and configuration-required addons cannot be installed without
// configuration. A concrete casbin-backed implementation lives in
// internal/authzrules; DefaultAddonPolicy implements the same rules
// directly for use where pulling in the policy engine isn't warranted
// (tests, and corectl's fallback when the casbin enforcer fails to load).
type AddonPolicy interface {
	CanInstall(existing []catalogtypes.Descriptor, addon catalogtypes.Descriptor, locked bool) error
	CanUninstall(addon catalogtypes.Descriptor, locked bool) error
}

// DefaultAddonPolicy implements AddonPolicy with the rules spec.md names
// directly in Go, with no policy-engine indirection.
type DefaultAddonPolicy struct{}

func (DefaultAddonPolicy) CanInstall(existing []catalogtypes.Descriptor, addon catalogtypes.Descriptor, locked bool) error {
	if locked {
		return otherErr(UserAddonsAreLocked)
	}
	for _, d := range existing {
		if d.Equal(addon) {
			return otherErr(AddonAlreadyInstalled)
		}
	}
	if addon.Manifest.BehaviorHints.ConfigurationRequired {
		return otherErr(AddonConfigurationRequired)
	}
	return nil
}

func (DefaultAddonPolicy) CanUninstall(addon catalogtypes.Descriptor, locked bool) error {
	if locked {
		return otherErr(UserAddonsAreLocked)
	}
	if addon.Flags.Protected {
		return otherErr(AddonIsProtected)
	}
	return nil
}

// NewPolicyError builds the CtxError an external AddonPolicy
// implementation (internal/authzrules) should return for a rejected
// install/uninstall decision, so policy engines outside this package
// don't need access to the unexported otherErr constructor.
func NewPolicyError(kind OtherErrorKind) error {
	return otherErr(kind)
}
