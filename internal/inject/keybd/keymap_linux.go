//go:build linux

package keybd

import "github.com/micmonay/keybd_event"

type keyStroke struct {
	code  int
	shift bool
}

// usLayout maps printable ASCII plus tab and newline onto a US keyboard.
var usLayout = map[rune]keyStroke{
	' ':  {keybd_event.VK_SPACE, false},
	'\t': {keybd_event.VK_TAB, false},
	'\n': {keybd_event.VK_ENTER, false},

	'1': {keybd_event.VK_1, false}, '!': {keybd_event.VK_1, true},
	'2': {keybd_event.VK_2, false}, '@': {keybd_event.VK_2, true},
	'3': {keybd_event.VK_3, false}, '#': {keybd_event.VK_3, true},
	'4': {keybd_event.VK_4, false}, '$': {keybd_event.VK_4, true},
	'5': {keybd_event.VK_5, false}, '%': {keybd_event.VK_5, true},
	'6': {keybd_event.VK_6, false}, '^': {keybd_event.VK_6, true},
	'7': {keybd_event.VK_7, false}, '&': {keybd_event.VK_7, true},
	'8': {keybd_event.VK_8, false}, '*': {keybd_event.VK_8, true},
	'9': {keybd_event.VK_9, false}, '(': {keybd_event.VK_9, true},
	'0': {keybd_event.VK_0, false}, ')': {keybd_event.VK_0, true},

	'-':  {keybd_event.VK_MINUS, false}, '_': {keybd_event.VK_MINUS, true},
	'=':  {keybd_event.VK_EQUAL, false}, '+': {keybd_event.VK_EQUAL, true},
	'[':  {keybd_event.VK_LEFTBRACE, false}, '{': {keybd_event.VK_LEFTBRACE, true},
	']':  {keybd_event.VK_RIGHTBRACE, false}, '}': {keybd_event.VK_RIGHTBRACE, true},
	';':  {keybd_event.VK_SEMICOLON, false}, ':': {keybd_event.VK_SEMICOLON, true},
	'\'': {keybd_event.VK_APOSTROPHE, false}, '"': {keybd_event.VK_APOSTROPHE, true},
	'`':  {keybd_event.VK_GRAVE, false}, '~': {keybd_event.VK_GRAVE, true},
	'\\': {keybd_event.VK_BACKSLASH, false}, '|': {keybd_event.VK_BACKSLASH, true},
	',':  {keybd_event.VK_COMMA, false}, '<': {keybd_event.VK_COMMA, true},
	'.':  {keybd_event.VK_DOT, false}, '>': {keybd_event.VK_DOT, true},
	'/':  {keybd_event.VK_SLASH, false}, '?': {keybd_event.VK_SLASH, true},
}

var letterKeys = [26]int{
	keybd_event.VK_A, keybd_event.VK_B, keybd_event.VK_C, keybd_event.VK_D,
	keybd_event.VK_E, keybd_event.VK_F, keybd_event.VK_G, keybd_event.VK_H,
	keybd_event.VK_I, keybd_event.VK_J, keybd_event.VK_K, keybd_event.VK_L,
	keybd_event.VK_M, keybd_event.VK_N, keybd_event.VK_O, keybd_event.VK_P,
	keybd_event.VK_Q, keybd_event.VK_R, keybd_event.VK_S, keybd_event.VK_T,
	keybd_event.VK_U, keybd_event.VK_V, keybd_event.VK_W, keybd_event.VK_X,
	keybd_event.VK_Y, keybd_event.VK_Z,
}

func init() {
	for i, code := range letterKeys {
		usLayout[rune('a'+i)] = keyStroke{code, false}
		usLayout[rune('A'+i)] = keyStroke{code, true}
	}
}

// keyFor resolves char to a key code and whether shift must be held.
func keyFor(char rune) (code int, shift bool, ok bool) {
	ks, ok := usLayout[char]
	return ks.code, ks.shift, ok
}
