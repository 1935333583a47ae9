package common

import "encoding/json"

type Serializable interface {
	Serialize() ([]byte, error)
}

func EncodeJSONValue(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func DecodeJSONValue(b []byte, v interface{}) error {
	return json.Unmarshal(b, v)
}

func MustJSONMarshal(o interface{}) []byte {
	b, err := json.Marshal(o)
	if err != nil {
		panic(err)
	}
	return b
}
