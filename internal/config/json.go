package config

import (
	"fmt"
	"time"

	"github.com/tidwall/gjson"
)

// ApplyHostJSON overlays a host configuration fragment onto the
// current settings and notifies observers. Keys are camelCase; absent
// keys keep their values. Delay values accept bare numbers
// (milliseconds) or Go duration strings. Unparsable values are logged
// and skipped.
func (c *Config) ApplyHostJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("config: host settings are not valid json")
	}
	root := gjson.ParseBytes(data)

	c.mu.Lock()
	s := c.settings
	c.overlay(&s, root)
	s.normalize()
	c.settings = s
	c.mu.Unlock()

	c.notify()
	return nil
}

func (c *Config) overlay(s *Settings, root gjson.Result) {
	for key, dst := range map[string]*int{
		"viewportWidth":  &s.ViewportWidth,
		"windowHeight":   &s.WindowHeight,
		"extensionLines": &s.ExtensionLines,
	} {
		if v := root.Get(key); v.Exists() {
			*dst = int(v.Int())
		}
	}

	for key, dst := range map[string]*Duration{
		"layoutDebounce":        &s.LayoutDebounce,
		"activeDebounce":        &s.ActiveDebounce,
		"focusDebounce":         &s.FocusDebounce,
		"tabOptionsDebounce":    &s.TabOptionsDebounce,
		"scrollDebounce":        &s.ScrollDebounce,
		"scrollSmoothDebounce":  &s.ScrollSmoothDebounce,
		"focusSettleDelay":      &s.FocusSettleDelay,
		"externalCursorDelay":   &s.ExternalCursorDelay,
		"externalWindowClose":   &s.ExternalWindowClose,
		"compositeEscapeWindow": &s.CompositeEscapeWindow,
	} {
		v := root.Get(key)
		if !v.Exists() {
			continue
		}
		d, err := hostDuration(v)
		if err != nil {
			c.log.Warn("host setting %s: %v", key, err)
			continue
		}
		*dst = d
	}

	for key, dst := range map[string]*string{
		"scheme":   &s.Scheme,
		"logLevel": &s.LogLevel,
		"nvimPath": &s.NvimPath,
		"addr":     &s.Addr,
	} {
		if v := root.Get(key); v.Exists() {
			*dst = v.String()
		}
	}

	for key, dst := range map[string]*[]string{
		"hostSchemes": &s.HostSchemes,
		"nvimArgs":    &s.NvimArgs,
	} {
		v := root.Get(key)
		if !v.IsArray() {
			continue
		}
		var out []string
		for _, item := range v.Array() {
			out = append(out, item.String())
		}
		*dst = out
	}
}

// hostDuration decodes a host delay value: numbers are milliseconds,
// strings use Go duration syntax.
func hostDuration(v gjson.Result) (Duration, error) {
	if v.Type == gjson.String {
		d, err := time.ParseDuration(v.String())
		if err != nil {
			return 0, err
		}
		return Duration(d), nil
	}
	if v.Type != gjson.Number {
		return 0, fmt.Errorf("not a duration: %s", v.Raw)
	}
	return Duration(time.Duration(v.Int()) * time.Millisecond), nil
}
