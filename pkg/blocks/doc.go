// Package blocks defines the block vocabulary: a registry of block
// definitions and the Lua code generator they emit through. The built-in
// set covers movement, waiting, repetition, and speech; consumers extend
// the vocabulary by registering their own definitions.
package blocks
