// Package localstorage keeps the signer state in the browser's window.localStorage.
// It is only available when compiling to js/wasm.
package localstorage
