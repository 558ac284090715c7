package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"tasks/internal/dto"
	"tasks/internal/mapper"
	"tasks/internal/service"
)

type TaskHandler struct {
	svc    service.Tasks
	mapper mapper.TaskMapper
	log    log.FieldLogger
}

func NewTaskHandler(svc service.Tasks, m mapper.TaskMapper, logger log.FieldLogger) *TaskHandler {
	return &TaskHandler{svc: svc, mapper: m, log: logger}
}

// List godoc
// @Summary      List the tasks of a task list
// @Tags         tasks
// @Produce      json
// @Param        task_list_id  path      string  true  "Task list ID (UUID)"
// @Success      200           {object}  dto.ListTasksResponse
// @Failure      400           {object}  dto.ErrorResponse
// @Router       /task-lists/{task_list_id}/tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	listID, ok := parseID(c, "task_list_id")
	if !ok {
		return
	}
	tasks, err := h.svc.ListTasks(c.Request.Context(), listID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	items := make([]dto.Task, len(tasks))
	for i := range tasks {
		items[i] = h.mapper.ToDto(tasks[i])
	}
	c.JSON(http.StatusOK, dto.ListTasksResponse{Items: items})
}

// Create godoc
// @Summary      Create a task in a task list
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        task_list_id  path      string    true  "Task list ID (UUID)"
// @Param        body          body      dto.Task  true  "Task"
// @Success      201           {object}  dto.Task
// @Failure      400           {object}  dto.ErrorResponse
// @Router       /task-lists/{task_list_id}/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	listID, ok := parseID(c, "task_list_id")
	if !ok {
		return
	}
	var req dto.Task
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error())
		return
	}
	t, err := h.svc.CreateTask(c.Request.Context(), listID, h.mapper.FromDto(req))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, h.mapper.ToDto(t))
}

// Get godoc
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Param        task_list_id  path      string  true  "Task list ID (UUID)"
// @Param        task_id       path      string  true  "Task ID (UUID)"
// @Success      200           {object}  dto.Task
// @Failure      400           {object}  dto.ErrorResponse
// @Failure      404           {object}  dto.ErrorResponse
// @Router       /task-lists/{task_list_id}/tasks/{task_id} [get]
func (h *TaskHandler) Get(c *gin.Context) {
	listID, ok := parseID(c, "task_list_id")
	if !ok {
		return
	}
	taskID, ok := parseID(c, "task_id")
	if !ok {
		return
	}
	t, err := h.svc.GetTask(c.Request.Context(), listID, taskID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if t == nil {
		respond(c, http.StatusNotFound, "task not found: "+taskID.String())
		return
	}
	c.JSON(http.StatusOK, h.mapper.ToDto(*t))
}

// Update godoc
// @Summary      Update a task
// @Description  Priority and status keep their stored values when omitted.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        task_list_id  path      string    true  "Task list ID (UUID)"
// @Param        task_id       path      string    true  "Task ID (UUID)"
// @Param        body          body      dto.Task  true  "Task"
// @Success      200           {object}  dto.Task
// @Failure      400           {object}  dto.ErrorResponse
// @Failure      404           {object}  dto.ErrorResponse
// @Router       /task-lists/{task_list_id}/tasks/{task_id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	listID, ok := parseID(c, "task_list_id")
	if !ok {
		return
	}
	taskID, ok := parseID(c, "task_id")
	if !ok {
		return
	}
	var req dto.Task
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error())
		return
	}
	t, err := h.svc.UpdateTask(c.Request.Context(), listID, taskID, h.mapper.FromDto(req))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, h.mapper.ToDto(t))
}

// Delete godoc
// @Summary      Delete a task
// @Tags         tasks
// @Param        task_list_id  path  string  true  "Task list ID (UUID)"
// @Param        task_id       path  string  true  "Task ID (UUID)"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /task-lists/{task_list_id}/tasks/{task_id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	listID, ok := parseID(c, "task_list_id")
	if !ok {
		return
	}
	taskID, ok := parseID(c, "task_id")
	if !ok {
		return
	}
	if err := h.svc.DeleteTask(c.Request.Context(), listID, taskID); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
