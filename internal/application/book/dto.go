package book

import (
	"github.com/xiebiao/booklibrary/internal/domain/book"
)

// BookDTO 图书响应DTO
// id始终是存储分配的24位十六进制字符串,editorial未设置时为null
type BookDTO struct {
	ID        string  `json:"id" example:"65a1b2c3d4e5f6a7b8c9d0e1"`
	Title     string  `json:"title" example:"Dune"`
	ISBN      string  `json:"isbn" example:"9780441013593"`
	Author    string  `json:"author" example:"Frank Herbert"`
	Pages     int     `json:"pages" example:"412"`
	Editorial *string `json:"editorial" example:"Ace"`
}

func toDTO(b *book.Book) *BookDTO {
	return &BookDTO{
		ID:        b.ID.String(),
		Title:     b.Title,
		ISBN:      b.ISBN,
		Author:    b.Author,
		Pages:     b.Pages,
		Editorial: b.Editorial,
	}
}

func toDTOs(books []*book.Book) []*BookDTO {
	dtos := make([]*BookDTO, 0, len(books))
	for _, b := range books {
		dtos = append(dtos, toDTO(b))
	}
	return dtos
}
