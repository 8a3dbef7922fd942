package options

import "fmt"

// Advanced holds the optional feature flags
type Advanced struct {
	IOSSupport      bool `yaml:"ios_support" json:"ios_support"`
	PublishToExpo   bool `yaml:"publish_to_expo" json:"publish_to_expo"`
	PublishToStores bool `yaml:"publish_to_stores" json:"publish_to_stores"`
	UnitTests       bool `yaml:"unit_tests" json:"unit_tests"`
	ComponentTests  bool `yaml:"component_tests" json:"component_tests"`
	HookTests       bool `yaml:"hook_tests" json:"hook_tests"`
	Caching         bool `yaml:"caching" json:"caching"`
	Notifications   bool `yaml:"notifications" json:"notifications"`
}

// AdvancedFlag names one field of Advanced
type AdvancedFlag string

// Advanced flags
const (
	FlagIOSSupport      AdvancedFlag = "ios_support"
	FlagPublishToExpo   AdvancedFlag = "publish_to_expo"
	FlagPublishToStores AdvancedFlag = "publish_to_stores"
	FlagUnitTests       AdvancedFlag = "unit_tests"
	FlagComponentTests  AdvancedFlag = "component_tests"
	FlagHookTests       AdvancedFlag = "hook_tests"
	FlagCaching         AdvancedFlag = "caching"
	FlagNotifications   AdvancedFlag = "notifications"
)

// AdvancedFlags lists every flag in declaration order
var AdvancedFlags = []AdvancedFlag{
	FlagIOSSupport,
	FlagPublishToExpo,
	FlagPublishToStores,
	FlagUnitTests,
	FlagComponentTests,
	FlagHookTests,
	FlagCaching,
	FlagNotifications,
}

// Get returns the value of flag f; unknown flags read as false
func (a Advanced) Get(f AdvancedFlag) bool {
	if p := a.field(f); p != nil {
		return *p
	}
	return false
}

// With returns a copy of a with flag f set to v
func (a Advanced) With(f AdvancedFlag, v bool) (Advanced, error) {
	p := a.field(f)
	if p == nil {
		return a, fmt.Errorf("unknown advanced option %q", f)
	}
	*p = v
	return a, nil
}

// ForcesManual reports whether f, when enabled, requires the manual trigger
func (f AdvancedFlag) ForcesManual() bool {
	return f == FlagIOSSupport || f == FlagPublishToExpo || f == FlagPublishToStores
}

// ForcesUnitTests reports whether f, when enabled, requires unit tests
func (f AdvancedFlag) ForcesUnitTests() bool {
	return f == FlagComponentTests || f == FlagHookTests
}

func (a *Advanced) field(f AdvancedFlag) *bool {
	switch f {
	case FlagIOSSupport:
		return &a.IOSSupport
	case FlagPublishToExpo:
		return &a.PublishToExpo
	case FlagPublishToStores:
		return &a.PublishToStores
	case FlagUnitTests:
		return &a.UnitTests
	case FlagComponentTests:
		return &a.ComponentTests
	case FlagHookTests:
		return &a.HookTests
	case FlagCaching:
		return &a.Caching
	case FlagNotifications:
		return &a.Notifications
	}
	return nil
}
