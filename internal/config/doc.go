// Package config stores swipe tuning in Fyne preferences, loads YAML tuning
// profiles, and persists the settled value of each swipe state between runs.
package config
