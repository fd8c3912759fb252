package models

// SceneItemTransform - позиция и масштаб элемента сцены.
// Нулевые поля не отправляются коллаборатору.
type SceneItemTransform struct {
	PositionX       float64
	PositionY       float64
	ScaleX          float64
	ScaleY          float64
	BoundsType      string
	BoundsAlignment float64
	BoundsWidth     float64
	BoundsHeight    float64
}

// VideoSettings - базовые настройки видеовыхода коллаборатора.
type VideoSettings struct {
	BaseWidth    float64
	BaseHeight   float64
	OutputWidth  float64
	OutputHeight float64
}

// InputInfo - описание существующего входа, используется диагностическим дампом сцены.
type InputInfo struct {
	Name string
	Kind string
}

// TextSourceDef - определение текстового элемента оверлея с фиксированной позицией.
type TextSourceDef struct {
	Name     string
	DefaultX float64
	DefaultY float64
}

// IconSourceDef - определение иконки с одним статичным изображением.
type IconSourceDef struct {
	Name     string
	IconPath string
	DefaultX float64
	DefaultY float64
	Scale    float64
}

// ToggleIconSourceDef - иконка с двумя состояниями (включено/выключено).
type ToggleIconSourceDef struct {
	Name             string
	EnabledIconPath  string
	DisabledIconPath string
	DefaultX         float64
	DefaultY         float64
	Scale            float64
}

// TextHandle - стабильная ссылка на созданный текстовый элемент.
type TextHandle struct {
	Name string
}

// ToggleIconHandle - ссылка на иконку с двумя состояниями и ее путями.
type ToggleIconHandle struct {
	Name             string
	EnabledIconPath  string
	DisabledIconPath string
}

// OverlayHandles - полный набор ссылок на элементы оверлея.
// Заполняется один раз при инициализации реестра; nil означает "еще не готов".
type OverlayHandles struct {
	ChamberTemp      TextHandle
	BedTemp          TextHandle
	TargetBedTemp    TextHandle
	NozzleTemp       TextHandle
	TargetNozzleTemp TextHandle
	PercentComplete  TextHandle
	Layers           TextHandle
	TimeRemaining    TextHandle
	SubtaskName      TextHandle
	Stage            TextHandle
	PartFan          TextHandle
	AuxFan           TextHandle
	ChamberFan       TextHandle
	Filament         TextHandle
	PrintWeight      TextHandle

	NozzleTempIcon ToggleIconHandle
	BedTempIcon    ToggleIconHandle
	PartFanIcon    ToggleIconHandle
	AuxFanIcon     ToggleIconHandle
	ChamberFanIcon ToggleIconHandle
	PreviewImage   ToggleIconHandle
}

// TelemetryState - явное состояние процессора телеметрии между сообщениями.
type TelemetryState struct {
	LastLayerNum int
	LastJobName  string
}

// PrinterEventKind - тип события транспорта телеметрии.
type PrinterEventKind int

const (
	EventMessage PrinterEventKind = iota
	EventConnected
	EventDisconnected
)

// PrinterEvent - событие от транспорта телеметрии, потребляется единым циклом диспетчеризации.
type PrinterEvent struct {
	Kind    PrinterEventKind
	Payload []byte
	Reason  string
}

// RemoteFile - файл в хранилище принтера.
type RemoteFile struct {
	Name  string `json:"name"`
	Size  uint64 `json:"size"`
	IsDir bool   `json:"is_dir"`
	Time  string `json:"time"`
}
