package workflow

// latinToNative is the fixed transliteration table from the recognizer's
// Latin key names to native plate letters. It covers exactly the sixteen
// letters permitted on a plate.
var latinToNative = map[string]string{ //nolint: gochecknoglobals
	"be":  "ب",
	"dal": "د",
	"ein": "ع",
	"he":  "ح",
	"jim": "ج",
	"lam": "ل",
	"mim": "م",
	"nun": "ن",
	"qaf": "ق",
	"sad": "ص",
	"sin": "س",
	"ta":  "ط",
	"te":  "ت",
	"vav": "و",
	"ye":  "ی",
	"zhe": "ز",
}

// NativeLetter maps a recognizer letter to its native form. Unknown keys pass
// through unchanged; the validator decides later whether the result is
// acceptable.
func NativeLetter(key string) string {
	if native, ok := latinToNative[key]; ok {
		return native
	}

	return key
}
