package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// BillingPolicy holds the tunable limits of the self-service channels.
type BillingPolicy struct {
	DailyQueryLimit       int `mapstructure:"dailyQueryLimit"`
	DetailPageSizeDefault int `mapstructure:"detailPageSizeDefault"`
	DetailPageSizeMax     int `mapstructure:"detailPageSizeMax"`
}

func DefaultBillingPolicy() BillingPolicy {
	return BillingPolicy{
		DailyQueryLimit:       3,
		DetailPageSizeDefault: 5,
		DetailPageSizeMax:     50,
	}
}

type PolicyHolder struct {
	current atomic.Value // holds BillingPolicy
}

// NewStaticPolicyHolder returns a holder that never reloads.
func NewStaticPolicyHolder(policy BillingPolicy) *PolicyHolder {
	holder := &PolicyHolder{}
	holder.current.Store(policy)
	return holder
}

func NewPolicyHolder() (*PolicyHolder, error) {
	return LoadPolicyHolder("/etc/billhub", ".")
}

// LoadPolicyHolder reads billing.yml from the first matching path and watches it for changes.
func LoadPolicyHolder(paths ...string) (*PolicyHolder, error) {
	v := viper.New()

	v.SetConfigName("billing")
	v.SetConfigType("yml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("BILLHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultBillingPolicy()
	v.SetDefault("billing.dailyQueryLimit", defaults.DailyQueryLimit)
	v.SetDefault("billing.detailPageSizeDefault", defaults.DetailPageSizeDefault)
	v.SetDefault("billing.detailPageSizeMax", defaults.DetailPageSizeMax)

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileFound = false
	}

	var policy BillingPolicy
	if err := v.UnmarshalKey("billing", &policy); err != nil {
		return nil, err
	}
	if err := validateBillingPolicy(policy); err != nil {
		return nil, err
	}

	holder := NewStaticPolicyHolder(policy)
	if !fileFound {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated BillingPolicy
		if err := v.UnmarshalKey("billing", &updated); err != nil {
			log.Printf("[billing-policy] reload failed: %v", err)
			return
		}
		if err := validateBillingPolicy(updated); err != nil {
			log.Printf("[billing-policy] invalid policy ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[billing-policy] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *PolicyHolder) Get() BillingPolicy {
	if h == nil {
		return DefaultBillingPolicy()
	}
	policy, ok := h.current.Load().(BillingPolicy)
	if !ok {
		return DefaultBillingPolicy()
	}
	return policy
}

func validateBillingPolicy(policy BillingPolicy) error {
	if policy.DailyQueryLimit <= 0 {
		return errors.New("billing.dailyQueryLimit must be positive")
	}
	if policy.DetailPageSizeDefault <= 0 {
		return errors.New("billing.detailPageSizeDefault must be positive")
	}
	if policy.DetailPageSizeMax < policy.DetailPageSizeDefault {
		return errors.New("billing.detailPageSizeMax must not be below detailPageSizeDefault")
	}
	return nil
}
