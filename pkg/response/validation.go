package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// FieldIssue 单个字段的校验失败
// 结构与常见的校验框架输出保持一致：loc定位字段，msg给出原因，type是机器可读的类别
type FieldIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationError 422响应：请求体解析失败或字段校验失败
func ValidationError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorBody{Detail: Issues(err)})
}

// Issues 把binding阶段的错误翻译成FieldIssue列表
func Issues(err error) []FieldIssue {
	var (
		verrs     validator.ValidationErrors
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)

	switch {
	case errors.As(err, &verrs):
		issues := make([]FieldIssue, 0, len(verrs))
		for _, fe := range verrs {
			issues = append(issues, fieldIssue(fe))
		}
		return issues
	case errors.As(err, &typeErr):
		return []FieldIssue{{
			Loc:  bodyLoc(typeErr.Field),
			Msg:  fmt.Sprintf("Input should be a valid %s", typeErr.Type.String()),
			Type: "type_error",
		}}
	case errors.As(err, &syntaxErr):
		return []FieldIssue{{
			Loc:  []string{"body", fmt.Sprintf("%d", syntaxErr.Offset)},
			Msg:  "JSON decode error",
			Type: "json_invalid",
		}}
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return []FieldIssue{{
			Loc:  []string{"body"},
			Msg:  "Field required",
			Type: "missing",
		}}
	default:
		return []FieldIssue{{
			Loc:  []string{"body"},
			Msg:  err.Error(),
			Type: "value_error",
		}}
	}
}

func fieldIssue(fe validator.FieldError) FieldIssue {
	issue := FieldIssue{Loc: bodyLoc(fe.Field())}
	switch fe.Tag() {
	case "required":
		issue.Msg = "Field required"
		issue.Type = "missing"
	case "min":
		issue.Msg = fmt.Sprintf("Value should have at least %s characters", fe.Param())
		issue.Type = "string_too_short"
	case "max":
		issue.Msg = fmt.Sprintf("Value should have at most %s characters", fe.Param())
		issue.Type = "string_too_long"
	default:
		issue.Msg = fe.Error()
		issue.Type = fe.Tag()
	}
	return issue
}

func bodyLoc(field string) []string {
	loc := []string{"body"}
	if field == "" {
		return loc
	}
	return append(loc, strings.Split(field, ".")...)
}

// JSONTagName 让校验错误里的字段名使用json tag（title而不是Title）
// 注册方式：validate.RegisterTagNameFunc(response.JSONTagName)
func JSONTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}
