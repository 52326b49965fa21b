// Package config loads and validates railseq rail configuration.
//
// Configuration is YAML: a list of rails, each naming its supplies in
// power-on order with optional voltage windows and settle delays. It is the
// Go-native replacement for the device-tree properties of multi-rail
// regulator bindings (supply-names, min/max-microvolt,
// power-on/off-delay-us), with the init policies of the regulator framework
// (boot-on, always-on) folded in.
//
//	rails:
//	  - name: soc
//	    boot_on: true
//	    supplies:
//	      - name: vdd-core
//	        min_microvolts: 800000
//	        max_microvolts: 900000
//	        power_on_delay_us: 500
//	        power_off_delay_us: 200
//	      - name: vdd-io
//
// Voltage bounds default to zero ("do not constrain"); delays default to
// zero ("no delay"). A rail with no supplies is invalid.
package config
