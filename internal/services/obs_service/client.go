package obs_service

import (
	"sync"

	appconfig "github.com/iwtcode/bambuService/internal/config"
	"github.com/iwtcode/bambuService/internal/domain/models"
	"github.com/iwtcode/bambuService/internal/interfaces"
	"github.com/iwtcode/bambuService/internal/middleware/logging"
	apperrors "github.com/iwtcode/bambuService/pkg/errors"

	"github.com/andreykaipov/goobs"
	obsconfig "github.com/andreykaipov/goobs/api/requests/config"
	"github.com/andreykaipov/goobs/api/requests/inputs"
	"github.com/andreykaipov/goobs/api/requests/mediainputs"
	"github.com/andreykaipov/goobs/api/requests/sceneitems"
	"github.com/andreykaipov/goobs/api/requests/scenes"
	"github.com/andreykaipov/goobs/api/requests/stream"
	"github.com/andreykaipov/goobs/api/typedefs"
)

// ObsClient - адаптер websocket-клиента OBS под контракт Compositor.
// Идентификаторы элементов сцены в ответах протокола приходят как float64
// и конвертируются в int на границе адаптера.
type ObsClient struct {
	cfg *appconfig.AppConfig
	log *logging.Logger

	mu       sync.Mutex
	client   *goobs.Client
	disposed bool
}

func NewObsClient(cfg *appconfig.AppConfig, logger *logging.Logger) interfaces.Compositor {
	return &ObsClient{
		cfg: cfg,
		log: logger.WithPrefix("obs"),
	}
}

// Connect устанавливает websocket-соединение с OBS.
func (c *ObsClient) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return apperrors.ErrDisposed
	}
	if c.client != nil {
		return nil
	}

	c.log.Info("Connecting to OBS", "address", c.cfg.Obs.Address)
	client, err := goobs.New(c.cfg.Obs.Address, goobs.WithPassword(c.cfg.Obs.Password))
	if err != nil {
		return err
	}
	c.client = client
	c.log.Info("Connected to OBS")
	return nil
}

// Disconnect закрывает соединение. Повторные вызовы безопасны.
func (c *ObsClient) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disposed = true
	if c.client == nil {
		return nil
	}
	err := c.client.Disconnect()
	c.client = nil
	return err
}

func (c *ObsClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client != nil && !c.disposed
}

// conn возвращает активный клиент либо ошибку состояния соединения.
func (c *ObsClient) conn() (*goobs.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return nil, apperrors.ErrDisposed
	}
	if c.client == nil {
		return nil, apperrors.ErrNotConnected
	}
	return c.client, nil
}

func (c *ObsClient) SceneExists(name string) (bool, error) {
	client, err := c.conn()
	if err != nil {
		return false, err
	}
	resp, err := client.Scenes.GetSceneList()
	if err != nil {
		return false, err
	}
	for _, s := range resp.Scenes {
		if s.SceneName == name {
			return true, nil
		}
	}
	return false, nil
}

func (c *ObsClient) CreateScene(name string) error {
	client, err := c.conn()
	if err != nil {
		return err
	}
	_, err = client.Scenes.CreateScene(scenes.NewCreateSceneParams().WithSceneName(name))
	return err
}

func (c *ObsClient) SetCurrentScene(name string) error {
	client, err := c.conn()
	if err != nil {
		return err
	}
	_, err = client.Scenes.SetCurrentProgramScene(
		scenes.NewSetCurrentProgramSceneParams().WithSceneName(name))
	return err
}

func (c *ObsClient) InputExists(name string) (bool, error) {
	client, err := c.conn()
	if err != nil {
		return false, err
	}
	resp, err := client.Inputs.GetInputList(inputs.NewGetInputListParams())
	if err != nil {
		return false, err
	}
	for _, in := range resp.Inputs {
		if in.InputName == name {
			return true, nil
		}
	}
	return false, nil
}

func (c *ObsClient) CreateInput(scene, input, kind string, settings map[string]interface{}) (int, error) {
	client, err := c.conn()
	if err != nil {
		return 0, err
	}
	resp, err := client.Inputs.CreateInput(inputs.NewCreateInputParams().
		WithSceneName(scene).
		WithInputName(input).
		WithInputKind(kind).
		WithInputSettings(settings).
		WithSceneItemEnabled(true))
	if err != nil {
		return 0, err
	}
	return int(resp.SceneItemId), nil
}

func (c *ObsClient) GetInputSettings(name string) (map[string]interface{}, error) {
	client, err := c.conn()
	if err != nil {
		return nil, err
	}
	resp, err := client.Inputs.GetInputSettings(
		inputs.NewGetInputSettingsParams().WithInputName(name))
	if err != nil {
		return nil, err
	}
	return resp.InputSettings, nil
}

func (c *ObsClient) SetInputSettings(name string, settings map[string]interface{}) error {
	client, err := c.conn()
	if err != nil {
		return err
	}
	_, err = client.Inputs.SetInputSettings(inputs.NewSetInputSettingsParams().
		WithInputName(name).
		WithInputSettings(settings).
		WithOverlay(true))
	return err
}

func (c *ObsClient) RemoveInput(name string) error {
	client, err := c.conn()
	if err != nil {
		return err
	}
	_, err = client.Inputs.RemoveInput(inputs.NewRemoveInputParams().WithInputName(name))
	return err
}

func (c *ObsClient) GetInputList() ([]models.InputInfo, error) {
	client, err := c.conn()
	if err != nil {
		return nil, err
	}
	resp, err := client.Inputs.GetInputList(inputs.NewGetInputListParams())
	if err != nil {
		return nil, err
	}
	list := make([]models.InputInfo, 0, len(resp.Inputs))
	for _, in := range resp.Inputs {
		list = append(list, models.InputInfo{Name: in.InputName, Kind: in.InputKind})
	}
	return list, nil
}

func (c *ObsClient) GetSceneItemID(scene, source string) (int, error) {
	client, err := c.conn()
	if err != nil {
		return 0, err
	}
	resp, err := client.SceneItems.GetSceneItemId(sceneitems.NewGetSceneItemIdParams().
		WithSceneName(scene).
		WithSourceName(source))
	if err != nil {
		return 0, apperrors.ErrElementNotFound
	}
	return int(resp.SceneItemId), nil
}

func (c *ObsClient) SetSceneItemTransform(scene string, itemID int, transform models.SceneItemTransform) error {
	client, err := c.conn()
	if err != nil {
		return err
	}
	t := &typedefs.SceneItemTransform{
		PositionX: transform.PositionX,
		PositionY: transform.PositionY,
	}
	if transform.ScaleX != 0 {
		t.ScaleX = transform.ScaleX
	}
	if transform.ScaleY != 0 {
		t.ScaleY = transform.ScaleY
	}
	if transform.BoundsType != "" {
		t.BoundsType = transform.BoundsType
		t.BoundsAlignment = transform.BoundsAlignment
		t.BoundsWidth = transform.BoundsWidth
		t.BoundsHeight = transform.BoundsHeight
	}
	_, err = client.SceneItems.SetSceneItemTransform(sceneitems.NewSetSceneItemTransformParams().
		WithSceneName(scene).
		WithSceneItemId(itemID).
		WithSceneItemTransform(t))
	return err
}

func (c *ObsClient) GetSceneItemTransform(scene string, itemID int) (*models.SceneItemTransform, error) {
	client, err := c.conn()
	if err != nil {
		return nil, err
	}
	resp, err := client.SceneItems.GetSceneItemTransform(sceneitems.NewGetSceneItemTransformParams().
		WithSceneName(scene).
		WithSceneItemId(itemID))
	if err != nil {
		return nil, err
	}
	t := resp.SceneItemTransform
	return &models.SceneItemTransform{
		PositionX:       t.PositionX,
		PositionY:       t.PositionY,
		ScaleX:          t.ScaleX,
		ScaleY:          t.ScaleY,
		BoundsType:      t.BoundsType,
		BoundsAlignment: t.BoundsAlignment,
		BoundsWidth:     t.BoundsWidth,
		BoundsHeight:    t.BoundsHeight,
	}, nil
}

func (c *ObsClient) SetSceneItemIndex(scene string, itemID, index int) error {
	client, err := c.conn()
	if err != nil {
		return err
	}
	_, err = client.SceneItems.SetSceneItemIndex(sceneitems.NewSetSceneItemIndexParams().
		WithSceneName(scene).
		WithSceneItemId(itemID).
		WithSceneItemIndex(index))
	return err
}

func (c *ObsClient) SetSceneItemLocked(scene string, itemID int, locked bool) error {
	client, err := c.conn()
	if err != nil {
		return err
	}
	_, err = client.SceneItems.SetSceneItemLocked(sceneitems.NewSetSceneItemLockedParams().
		WithSceneName(scene).
		WithSceneItemId(itemID).
		WithSceneItemLocked(locked))
	return err
}

func (c *ObsClient) GetMediaState(input string) (string, error) {
	client, err := c.conn()
	if err != nil {
		return "", err
	}
	resp, err := client.MediaInputs.GetMediaInputStatus(
		mediainputs.NewGetMediaInputStatusParams().WithInputName(input))
	if err != nil {
		return "", err
	}
	return resp.MediaState, nil
}

func (c *ObsClient) IsStreamActive() (bool, error) {
	client, err := c.conn()
	if err != nil {
		return false, err
	}
	resp, err := client.Stream.GetStreamStatus()
	if err != nil {
		return false, err
	}
	return resp.OutputActive, nil
}

func (c *ObsClient) StartStream() error {
	client, err := c.conn()
	if err != nil {
		return err
	}
	_, err = client.Stream.StartStream(&stream.StartStreamParams{})
	return err
}

func (c *ObsClient) StopStream() error {
	client, err := c.conn()
	if err != nil {
		return err
	}
	_, err = client.Stream.StopStream(&stream.StopStreamParams{})
	return err
}

func (c *ObsClient) GetVideoSettings() (*models.VideoSettings, error) {
	client, err := c.conn()
	if err != nil {
		return nil, err
	}
	resp, err := client.Config.GetVideoSettings()
	if err != nil {
		return nil, err
	}
	return &models.VideoSettings{
		BaseWidth:    resp.BaseWidth,
		BaseHeight:   resp.BaseHeight,
		OutputWidth:  resp.OutputWidth,
		OutputHeight: resp.OutputHeight,
	}, nil
}

func (c *ObsClient) SetVideoSettings(settings models.VideoSettings) error {
	client, err := c.conn()
	if err != nil {
		return err
	}
	_, err = client.Config.SetVideoSettings(obsconfig.NewSetVideoSettingsParams().
		WithBaseWidth(settings.BaseWidth).
		WithBaseHeight(settings.BaseHeight).
		WithOutputWidth(settings.OutputWidth).
		WithOutputHeight(settings.OutputHeight))
	return err
}
