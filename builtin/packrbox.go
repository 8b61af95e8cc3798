package builtin

import "github.com/gobuffalo/packr"

var _box *packr.Box

const (
	NetworkConfigTmplFile = "network.yaml.tmpl"
)

func Box() *packr.Box {
	if _box == nil {
		b := packr.NewBox("./files")
		_box = &b
	}
	return _box
}

func Bytes(path string) []byte {
	bytes, err := Box().MustBytes(path)
	if err != nil {
		panic(err)
	}
	return bytes
}

func MustBytes(path string) ([]byte, error) {
	return Box().MustBytes(path)
}

func String(path string) string {
	str, err := Box().MustString(path)
	if err != nil {
		panic(err)
	}
	return str
}
