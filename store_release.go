//go:build !micropdf_debug

package micropdf

const debugging = false

func assert(bool, string) {}
