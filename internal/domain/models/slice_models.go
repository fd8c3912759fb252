package models

import "encoding/xml"

// SliceConfig - дескриптор Metadata/slice_info.config внутри .3mf архива.
type SliceConfig struct {
	XMLName xml.Name    `xml:"config"`
	Plate   SlicePlate  `xml:"plate"`
	Header  SliceHeader `xml:"header"`
}

type SliceHeader struct {
	Items []SliceHeaderItem `xml:"header_item"`
}

type SliceHeaderItem struct {
	Key   string `xml:"key,attr"`
	Value string `xml:"value,attr"`
}

type SlicePlate struct {
	Metadata  []SliceMetadata `xml:"metadata"`
	Filaments []SliceFilament `xml:"filament"`
}

type SliceMetadata struct {
	Key   string `xml:"key,attr"`
	Value string `xml:"value,attr"`
}

// SliceFilament содержит расход филамента для плиты, used_g - вес задания в граммах.
type SliceFilament struct {
	ID    int     `xml:"id,attr"`
	Type  string  `xml:"type,attr"`
	Color string  `xml:"color,attr"`
	UsedM float64 `xml:"used_m,attr"`
	UsedG float64 `xml:"used_g,attr"`
}
