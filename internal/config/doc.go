// Package config loads the layerdisplay.yaml file shared by the CLI commands.
package config
