package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/annel0/voxelcore/internal/eventbus"
	"github.com/annel0/voxelcore/internal/logging"
	"github.com/annel0/voxelcore/internal/physics"
	"github.com/annel0/voxelcore/internal/vec"
	"github.com/annel0/voxelcore/internal/world"
	"github.com/annel0/voxelcore/internal/world/block"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, GenericResponse{Success: false, Message: message})
}

func respondOK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, GenericResponse{Success: true, Message: message, Data: data})
}

// blockParam разбирает :x/:y/:z
func blockParam(c *gin.Context) (vec.Vec3, error) {
	var p vec.Vec3
	for _, a := range vec.Axes {
		name := strings.ToLower(a.String())
		v, err := strconv.Atoi(c.Param(name))
		if err != nil {
			return vec.Vec3{}, fmt.Errorf("координата %s: %w", name, err)
		}
		p.SetAxis(a, v)
	}
	return p, nil
}

func (rs *RestServer) bodyParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Неверный идентификатор тела")
		return uuid.Nil, false
	}
	return id, true
}

// handleHealth проверка состояния сервера
func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

// handleWorld возвращает размеры мира и палитру
func (rs *RestServer) handleWorld(c *gin.Context) {
	size := rs.world.Size()
	ws := size.WorldSize()
	bound := rs.world.Bound()

	var names []string
	for d := range block.Palette() {
		names = append(names, d.Name)
	}

	respondOK(c, http.StatusOK, "Мир", WorldView{
		Width:    size.Width(),
		Height:   size.Height(),
		Chunks:   size.ChunkCount(),
		Size:     [3]int{ws.X, ws.Y, ws.Z},
		Palette:  names,
		Ticks:    rs.sim.Ticks(),
		MinBound: bound.Min,
		MaxBound: bound.Max,
	})
}

// handleStats возвращает статистику процесса и симуляции
func (rs *RestServer) handleStats(c *gin.Context) {
	bodies, sprites := 0, 0
	for range rs.sim.Bodies() {
		bodies++
	}
	for range rs.sim.Sprites() {
		sprites++
	}

	server := map[string]interface{}{
		"uptime":      rs.stats.GetUptime(),
		"server_time": time.Now().Unix(),
	}
	if cpu, err := rs.stats.GetCPUUsage(); err == nil {
		server["cpu_percent"] = fmt.Sprintf("%.2f", cpu)
	}
	if rss, err := rs.stats.GetRSS(); err == nil {
		server["rss_mb"] = fmt.Sprintf("%.2f", rss)
	}

	respondOK(c, http.StatusOK, "Статистика", gin.H{
		"server": server,
		"memory": rs.stats.GetDetailedMemoryStats(),
		"simulation": gin.H{
			"ticks":   rs.sim.Ticks(),
			"bodies":  bodies,
			"sprites": sprites,
		},
	})
}

// handleChunks перечисляет чанки с флагом изменений
func (rs *RestServer) handleChunks(c *gin.Context) {
	var chunks []ChunkView
	for pos, chunk := range rs.world.Chunks() {
		chunks = append(chunks, ChunkView{X: pos.X, Z: pos.Z, Dirty: chunk.Dirty(), Solid: chunk.Count()})
	}
	respondOK(c, http.StatusOK, "Чанки", chunks)
}

// handleMarkClean снимает флаг изменений после того, как клиент забрал чанк
func (rs *RestServer) handleMarkClean(c *gin.Context) {
	x, errX := strconv.Atoi(c.Param("x"))
	z, errZ := strconv.Atoi(c.Param("z"))
	if errX != nil || errZ != nil {
		respondError(c, http.StatusBadRequest, "Неверные координаты чанка")
		return
	}
	chunk, err := rs.world.Chunk(world.ChunkPos{X: x, Z: z})
	if err != nil {
		respondError(c, http.StatusNotFound, "Чанк вне карты")
		return
	}
	chunk.MarkClean()
	rs.publish(c, eventbus.TypeChunkCleaned, eventbus.ChunkCleaned{X: x, Z: z})
	respondOK(c, http.StatusOK, "Чанк помечен чистым", nil)
}

func (rs *RestServer) handleGetBlock(c *gin.Context) {
	p, err := blockParam(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	d, found := rs.world.Block(p)
	if !found {
		respondError(c, http.StatusNotFound, "Блок не найден")
		return
	}
	respondOK(c, http.StatusOK, "Блок", newBlockView(p, d))
}

func (rs *RestServer) handlePlaceBlock(c *gin.Context) {
	p, err := blockParam(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var req PlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Неверный формат запроса")
		return
	}
	d, found := block.ByName(req.Block)
	if !found {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("Неизвестный блок %q", req.Block))
		return
	}
	if err := rs.world.Place(p, d.ID); err != nil {
		rs.blockError(c, err)
		return
	}
	rs.publish(c, eventbus.TypeBlockPlaced, eventbus.BlockChanged{Position: [3]int{p.X, p.Y, p.Z}, Block: d.Name})
	respondOK(c, http.StatusOK, "Блок установлен", newBlockView(p, d))
}

func (rs *RestServer) handleBreakBlock(c *gin.Context) {
	p, err := blockParam(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := rs.world.Break(p); err != nil {
		rs.blockError(c, err)
		return
	}
	rs.publish(c, eventbus.TypeBlockBroken, eventbus.BlockChanged{Position: [3]int{p.X, p.Y, p.Z}})
	respondOK(c, http.StatusOK, "Блок убран", nil)
}

// publish отправляет изменение мира в шину; сбой шины не ломает запрос
func (rs *RestServer) publish(c *gin.Context, eventType string, payload any) {
	if err := eventbus.Emit(c.Request.Context(), rs.events, "api", eventType, eventbus.HighPriority, payload); err != nil {
		logging.Warn("событие %s не отправлено: %v", eventType, err)
	}
}

func (rs *RestServer) blockError(c *gin.Context, err error) {
	if errors.Is(err, world.ErrOutOfRange) {
		respondError(c, http.StatusNotFound, "Позиция вне мира")
		return
	}
	respondError(c, http.StatusInternalServerError, err.Error())
}

func (rs *RestServer) handleBodies(c *gin.Context) {
	views := []BodyView{}
	for b := range rs.sim.Bodies() {
		views = append(views, newBodyView(b))
	}
	respondOK(c, http.StatusOK, "Тела", views)
}

func (rs *RestServer) handleBody(c *gin.Context) {
	id, valid := rs.bodyParam(c)
	if !valid {
		return
	}
	b, found := rs.sim.Body(id)
	if !found {
		respondError(c, http.StatusNotFound, "Тело не найдено")
		return
	}
	respondOK(c, http.StatusOK, "Тело", newBodyView(b))
}

func (rs *RestServer) handleIntent(c *gin.Context) {
	id, valid := rs.bodyParam(c)
	if !valid {
		return
	}
	var req IntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Неверный формат запроса")
		return
	}
	if err := rs.sim.SetIntent(id, req.intent()); err != nil {
		rs.entityError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Ввод принят", nil)
}

func (rs *RestServer) handleFire(c *gin.Context) {
	id, valid := rs.bodyParam(c)
	if !valid {
		return
	}
	sid, err := rs.sim.Fire(id)
	if err != nil {
		rs.entityError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Выстрел", gin.H{"sprite_id": sid.String()})
}

func (rs *RestServer) handlePick(c *gin.Context) {
	id, valid := rs.bodyParam(c)
	if !valid {
		return
	}
	b, found := rs.sim.Body(id)
	if !found {
		respondError(c, http.StatusNotFound, "Тело не найдено")
		return
	}
	picked, hit := b.Pick(rs.world, rs.pickDistance)
	if !hit {
		respondError(c, http.StatusNotFound, "Блок под взглядом не найден")
		return
	}
	respondOK(c, http.StatusOK, "Блок под взглядом", newPickView(picked))
}

func (rs *RestServer) handleSprites(c *gin.Context) {
	views := []SpriteView{}
	for p := range rs.sim.Sprites() {
		views = append(views, newSpriteView(p))
	}
	respondOK(c, http.StatusOK, "Спрайты", views)
}

func (rs *RestServer) entityError(c *gin.Context, err error) {
	if errors.Is(err, physics.ErrUnknownEntity) {
		respondError(c, http.StatusNotFound, "Тело не найдено")
		return
	}
	respondError(c, http.StatusInternalServerError, err.Error())
}
