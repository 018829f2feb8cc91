package domain

// Mood é a tag de humor que uma sessão pode anexar à sua presença.
// Conjunto fechado: valores fora da enumeração são rejeitados na borda HTTP
// e nunca chegam ao armazenamento.
type Mood string

const (
	MoodCalm       Mood = "calm"
	MoodConnection Mood = "connection"
	MoodGratitude  Mood = "gratitude"
	MoodRelease    Mood = "release"
	MoodWonder     Mood = "wonder"
)

var moods = map[Mood]struct{}{
	MoodCalm:       {},
	MoodConnection: {},
	MoodGratitude:  {},
	MoodRelease:    {},
	MoodWonder:     {},
}

const (
	sessionIDMinLen = 8
	sessionIDMaxLen = 64
)

// IsValidSessionID reporta se v tem o formato de um identificador de sessão:
// 8 a 64 caracteres em [A-Za-z0-9_-].
//
// O identificador é gerado pelo cliente e não é autenticado; a validação aqui
// é só de formato.
func IsValidSessionID(v string) bool {
	if len(v) < sessionIDMinLen || len(v) > sessionIDMaxLen {
		return false
	}
	for i := 0; i < len(v); i++ {
		c := v[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '-':
		default:
			return false
		}
	}
	return true
}

// IsValidMood reporta se v é um humor válido. Vazio é válido: humor é opcional
// no heartbeat.
func IsValidMood(v string) bool {
	if v == "" {
		return true
	}
	_, ok := moods[Mood(v)]
	return ok
}
