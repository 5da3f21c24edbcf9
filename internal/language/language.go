package language

import (
	"strings"

	textlang "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// narrator ties a language to its default edge-tts voice. codes holds every
// spelling that should resolve to it; the first entry is the ISO 639-1 code.
type narrator struct {
	name  string
	voice string
	codes []string
}

var narrators = []narrator{
	{"English", "en-US-ChristopherNeural", []string{"en", "eng", "english"}},
	{"Spanish", "es-ES-AlvaroNeural", []string{"es", "spa", "spanish"}},
	{"French", "fr-FR-HenriNeural", []string{"fr", "fra", "fre", "french"}},
	{"German", "de-DE-ConradNeural", []string{"de", "deu", "ger", "german"}},
	{"Italian", "it-IT-DiegoNeural", []string{"it", "ita", "italian"}},
	{"Portuguese", "pt-BR-AntonioNeural", []string{"pt", "por", "portuguese"}},
	{"Japanese", "ja-JP-KeitaNeural", []string{"ja", "jpn", "japanese"}},
	{"Korean", "ko-KR-InJoonNeural", []string{"ko", "kor", "korean"}},
	{"Chinese", "zh-CN-YunxiNeural", []string{"zh", "cmn", "zho", "chi", "chinese", "mandarin"}},
	{"Russian", "ru-RU-DmitryNeural", []string{"ru", "rus", "russian"}},
	{"Arabic", "ar-SA-HamedNeural", []string{"ar", "arb", "ara", "arabic"}},
	{"Hindi", "hi-IN-MadhurNeural", []string{"hi", "hin", "hindi"}},
	{"Dutch", "nl-NL-MaartenNeural", []string{"nl", "nld", "dut", "dutch"}},
	{"Polish", "pl-PL-MarekNeural", []string{"pl", "pol", "polish"}},
	{"Swedish", "sv-SE-MattiasNeural", []string{"sv", "swe", "swedish"}},
	{"Danish", "da-DK-JeppeNeural", []string{"da", "dan", "danish"}},
	{"Norwegian", "nb-NO-FinnNeural", []string{"no", "nob", "nor", "norwegian"}},
	{"Finnish", "fi-FI-HarriNeural", []string{"fi", "fin", "finnish"}},
}

var byCode = func() map[string]*narrator {
	index := make(map[string]*narrator, len(narrators)*4)
	for i := range narrators {
		for _, code := range narrators[i].codes {
			index[code] = &narrators[i]
		}
	}
	return index
}()

func normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// ToISO2 converts a language code or English language name to ISO 639-1.
// Codes without a narrator are resolved through the CLDR tables; unknown
// two-letter input passes through and anything else yields "".
func ToISO2(code string) string {
	code = normalize(code)
	if code == "" {
		return ""
	}
	if n, ok := byCode[code]; ok {
		return n.codes[0]
	}
	if len(code) == 3 {
		if base, err := textlang.ParseBase(code); err == nil && len(base.String()) == 2 {
			return base.String()
		}
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// DisplayName returns the English name of a language, "Unknown" for empty
// input and the upper-cased code when nothing matches.
func DisplayName(code string) string {
	code = normalize(code)
	if code == "" {
		return "Unknown"
	}
	if n, ok := byCode[code]; ok {
		return n.name
	}
	if base, err := textlang.ParseBase(code); err == nil {
		if name := display.English.Languages().Name(base); name != "" {
			return name
		}
	}
	return strings.ToUpper(code)
}

// EdgeVoice returns the default edge-tts narrator for a language, or "".
func EdgeVoice(code string) string {
	if n, ok := byCode[normalize(code)]; ok {
		return n.voice
	}
	return ""
}
