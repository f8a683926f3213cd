package imageio

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Properties holds key=value pairs read from side-car text files
type Properties struct {
	k *koanf.Koanf
}

// NewProperties creates properties holding values
func NewProperties(values map[string]string) Properties {
	p := Properties{k: koanf.New(".")}
	for key, v := range values {
		_ = p.k.Set(key, v)
	}
	return p
}

// LoadProperties adds the key=value lines of the file at path. Lines starting with #
// are comments. Later values override earlier ones.
func (p *Properties) LoadProperties(path string) error {
	if p.k == nil {
		p.k = koanf.New(".")
	}
	return p.k.Load(file.Provider(path), dotenv.Parser())
}

// String returns the raw value of key
func (p Properties) String(key string) (string, bool) {
	if p.k == nil || !p.k.Exists(key) {
		return "", false
	}
	return p.k.String(key), true
}

// Len is the number of keys
func (p Properties) Len() int {
	if p.k == nil {
		return 0
	}
	return len(p.k.Keys())
}

// Int returns the integer value of key or def when it is missing or malformed
func (p Properties) Int(key string, def int) int {
	v, ok := p.String(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Bool returns the value of key interpreted as a flag. Numbers other than 0 are true.
func (p Properties) Bool(key string, def bool) bool {
	v, ok := p.String(key)
	if !ok {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n != 0
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// ViewProperties reads NAME.prop next to a plain image file. A missing file yields
// empty properties.
func ViewProperties(p ImagePath) (Properties, error) {
	var props Properties
	if p.IsArchiveEntry() {
		return props, nil
	}
	path := p.Path + ".prop"
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return props, nil
	}
	if err := props.LoadProperties(path); err != nil {
		return Properties{}, err
	}
	return props, nil
}
