// Package process terminates browser process trees left by PDF export.
package process
