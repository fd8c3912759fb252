package interfaces

import (
	"github.com/iwtcode/bambuService/internal/domain/models"
)

// Compositor определяет узкий контракт к API управления композитингом (OBS).
// Детали wire-протокола скрыты за адаптером; ошибки ErrNotConnected и ErrDisposed
// из pkg/errors сигнализируют об ожидаемых состояниях соединения.
type Compositor interface {
	Connect() error
	Disconnect() error
	IsConnected() bool

	SceneExists(name string) (bool, error)
	CreateScene(name string) error
	SetCurrentScene(name string) error

	InputExists(name string) (bool, error)
	CreateInput(scene, input, kind string, settings map[string]interface{}) (int, error)
	GetInputSettings(name string) (map[string]interface{}, error)
	SetInputSettings(name string, settings map[string]interface{}) error
	RemoveInput(name string) error
	GetInputList() ([]models.InputInfo, error)

	GetSceneItemID(scene, source string) (int, error)
	SetSceneItemTransform(scene string, itemID int, transform models.SceneItemTransform) error
	GetSceneItemTransform(scene string, itemID int) (*models.SceneItemTransform, error)
	SetSceneItemIndex(scene string, itemID, index int) error
	SetSceneItemLocked(scene string, itemID int, locked bool) error

	GetMediaState(input string) (string, error)

	IsStreamActive() (bool, error)
	StartStream() error
	StopStream() error

	GetVideoSettings() (*models.VideoSettings, error)
	SetVideoSettings(settings models.VideoSettings) error
}
