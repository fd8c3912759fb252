// @title Bambu Stream Service API
// @version 1.0.0
// @description Сервис трансляции телеметрии принтера Bambu Lab в OBS оверлей и Kafka.
// @host localhost:8082
// @BasePath /api/v1
package main

import "github.com/iwtcode/bambuService/internal/app"

func main() {
	// Создаем и запускаем новый экземпляр приложения fx
	app.New().Run()
}
