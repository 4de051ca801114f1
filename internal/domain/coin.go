package domain

import "fmt"

// CoinTypeTag identifies a coin kind by its "package::module::name" type string.
type CoinTypeTag struct {
	Package string `json:"package"`
	Module  string `json:"module"`
	Name    string `json:"name"`
}

// Canonical returns the "package::module::name" representation.
func (t CoinTypeTag) Canonical() string {
	return fmt.Sprintf("%s::%s::%s", t.Package, t.Module, t.Name)
}

func (t CoinTypeTag) String() string {
	return t.Canonical()
}

// IsNative reports whether the tag names the native gas coin.
// Any package publishing a sui::SUI coin is treated as native.
func (t CoinTypeTag) IsNative() bool {
	return t.Module == NativeCoinModule && t.Name == NativeCoinName
}

// Symbol returns the display symbol of the coin, which is the type name.
func (t CoinTypeTag) Symbol() string {
	return t.Name
}

const (
	NativeCoinPackage  = "0x2"
	NativeCoinModule   = "sui"
	NativeCoinName     = "SUI"
	NativeCoinDecimals = 9
)

// nativeCoin is unexported to prevent external mutation.
var nativeCoin = CoinTypeTag{
	Package: NativeCoinPackage,
	Module:  NativeCoinModule,
	Name:    NativeCoinName,
}

// NativeCoin returns the tag of the native gas coin (0x2::sui::SUI).
func NativeCoin() CoinTypeTag { return nativeCoin }
