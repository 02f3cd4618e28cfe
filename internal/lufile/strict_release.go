//go:build !debug

package lufile

const strictSeverity = false
