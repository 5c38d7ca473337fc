package project

import "testing"

func TestResolveDependencyPath(t *testing.T) {
	tests := []struct {
		name      string
		spec      string
		importing string
		want      string
	}{
		{
			name:      "parent then descend",
			spec:      "../a/b",
			importing: "/x/y/z.sol",
			want:      "/x/a/b",
		},
		{
			name:      "same dir",
			spec:      "./c",
			importing: "/x/y/z.sol",
			want:      "/x/y/c",
		},
		{
			name:      "repo relative",
			spec:      "../../math/SafeMath.sol",
			importing: "contracts/token/ERC20/ERC20.sol",
			want:      "contracts/math/SafeMath.sol",
		},
		{
			name:      "bare sibling",
			spec:      "IERC20.sol",
			importing: "contracts/token/ERC20/ERC20.sol",
			want:      "contracts/token/ERC20/IERC20.sol",
		},
		{
			name:      "dot segments in the middle",
			spec:      "./../access/./Roles.sol",
			importing: "contracts/token/Token.sol",
			want:      "contracts/access/Roles.sol",
		},
		{
			name:      "escape root truncates",
			spec:      "../../b.sol",
			importing: "a.sol",
			want:      "b.sol",
		},
		{
			name:      "double slash",
			spec:      ".//Lib.sol",
			importing: "contracts/Token.sol",
			want:      "contracts/Lib.sol",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveDependencyPath(tt.spec, tt.importing); got != tt.want {
				t.Fatalf("ResolveDependencyPath(%q, %q) = %q, want %q", tt.spec, tt.importing, got, tt.want)
			}
		})
	}
}

func TestLocalPath(t *testing.T) {
	cases := []struct {
		origin string
		marker string
		want   string
	}{
		{"/home/ci/node_modules/openzeppelin-solidity/contracts/a.sol", "openzeppelin-solidity/", "contracts/a.sol"},
		{`C:\build\openzeppelin-solidity\contracts\b.sol`, "openzeppelin-solidity/", "contracts/b.sol"},
		{"/elsewhere/contracts/c.sol", "openzeppelin-solidity/", "/elsewhere/contracts/c.sol"},
		{"contracts/d.sol", "", "contracts/d.sol"},
	}
	for _, tc := range cases {
		if got := LocalPath(tc.origin, tc.marker); got != tc.want {
			t.Fatalf("LocalPath(%q, %q) = %q, want %q", tc.origin, tc.marker, got, tc.want)
		}
	}
}

func TestTrimDisplayPrefix(t *testing.T) {
	if got := TrimDisplayPrefix("contracts/math/SafeMath.sol", len("contracts/")); got != "math/SafeMath.sol" {
		t.Fatalf("TrimDisplayPrefix = %q, want %q", got, "math/SafeMath.sol")
	}
	if got := TrimDisplayPrefix("short", 10); got != "" {
		t.Fatalf("TrimDisplayPrefix(short) = %q, want empty", got)
	}
	if got := TrimDisplayPrefix("keep", 0); got != "keep" {
		t.Fatalf("TrimDisplayPrefix(keep, 0) = %q, want keep", got)
	}
}

func TestBaseName(t *testing.T) {
	if got := BaseName("../math/SafeMath.sol"); got != "SafeMath.sol" {
		t.Fatalf("BaseName = %q, want SafeMath.sol", got)
	}
	if got := BaseName("Ownable.sol"); got != "Ownable.sol" {
		t.Fatalf("BaseName = %q, want Ownable.sol", got)
	}
}

func TestCanonicalKeyFoldsDecomposedNames(t *testing.T) {
	composed := "contracts/caf\u00e9.sol"
	decomposed := "contracts/cafe\u0301.sol"
	if CanonicalKey(composed) != CanonicalKey(decomposed) {
		t.Fatalf("CanonicalKey(%q) != CanonicalKey(%q)", composed, decomposed)
	}
}
