//go:build micropdf_debug

package micropdf

const debugging = true

func assert(cond bool, message string) {
	if !cond {
		panic(message)
	}
}
