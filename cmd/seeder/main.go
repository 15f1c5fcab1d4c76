package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/tastetrail/tastetrail"
	"github.com/tastetrail/tastetrail/ingestion"
)

// sampleRestaurants is a small Hồ Chí Minh City corpus for local
// development when no CSV export is at hand.
const sampleRestaurants = `ten_quan,diem_trung_binh,dia_chi,gio_mo_cua,gia_ca,lat,lon,diem_khong_gian,diem_vi_tri,diem_chat_luong,diem_phuc_vu,diem_gia_ca,avatar_url,url_goc
Phở Hòa Pasteur,4.2,"260C Pasteur, Quận 3",06:00 - 22:00,60.000đ - 90.000đ,10.7831,106.6893,7.5,8.2,8.8,7.9,7.2,,https://example.com/pho-hoa-pasteur
Cơm Tấm Ba Ghiền,4.6,"84 Đặng Văn Ngữ, Phú Nhuận",07:00 - 21:00,40.000đ - 70.000đ,10.7937,106.6782,6.8,7.5,9.1,7.4,8.3,,https://example.com/com-tam-ba-ghien
Bún Chả Hồ Gươm,4.1,"61 Nguyễn Văn Thủ, Quận 1",09:00 - 20:00,45.000đ - 65.000đ,10.7889,106.6980,7.1,8.6,8.2,7.8,7.9,,https://example.com/bun-cha-ho-guom
Trà Sữa Phúc Long,4.0,"42 Ngô Đức Kế, Quận 1",07:00 - 22:30,35.000đ - 60.000đ,10.7721,106.7040,8.5,8.9,8.0,7.6,7.4,,https://example.com/phuc-long-ngo-duc-ke
Bánh Mì Huỳnh Hoa,4.4,"26 Lê Thị Riêng, Quận 1",06:00 - 22:00,55.000đ - 65.000đ,10.7714,106.6902,6.2,8.4,9.0,7.0,7.1,,https://example.com/banh-mi-huynh-hoa
Lẩu Dê Lâm Ký,3.9,"474 Sư Vạn Hạnh, Quận 10",10:00 - 23:00,150.000đ - 300.000đ,10.7706,106.6680,7.3,7.2,8.1,7.7,7.8,,https://example.com/lau-de-lam-ky
Ốc Đào,4.3,"132 Nguyễn Thái Học, Quận 1",15:00 - 23:00,50.000đ - 200.000đ,10.7670,106.6976,6.9,8.1,8.7,7.5,7.6,,https://example.com/oc-dao
Cà Phê Vợt Ba Lù,4.5,"193 Phùng Hưng, Quận 5",04:00 - 18:00,15.000đ - 25.000đ,10.7513,106.6596,7.0,7.4,8.9,8.2,9.0,,https://example.com/ca-phe-vot-ba-lu
Hải Sản Năm Ri,4.0,"240 Vĩnh Khánh, Quận 4",16:00 - 23:30,80.000đ - 400.000đ,10.7596,106.7043,7.2,7.8,8.4,7.3,7.5,,https://example.com/hai-san-nam-ri
Sushi Rei,4.7,"10E Trần Nhật Duật, Quận 1",11:30 - 22:00,500.000đ - 2.000.000đ,10.7916,106.6910,9.2,8.0,9.4,9.1,6.5,,https://example.com/sushi-rei
`

const sampleReviews = `url_goc,diem_review,noi_dung,tac_gia
https://example.com/pho-hoa-pasteur,9,"Nước dùng đậm đà, bánh phở mềm. Quán đông nhưng phục vụ nhanh.",Minh
https://example.com/pho-hoa-pasteur,7,"Ngon nhưng hơi mắc so với mặt bằng chung.",Lan
https://example.com/com-tam-ba-ghien,10,"Sườn nướng to và thơm, ăn một lần là ghiền.",Tuấn
https://example.com/banh-mi-huynh-hoa,8,"Bánh mì đầy đặn, pate béo. Xếp hàng hơi lâu.",Hương
https://example.com/ca-phe-vot-ba-lu,9,"Cà phê vợt truyền thống, giá rẻ, chủ quán thân thiện.",Quân
https://example.com/oc-dao,8,"Ốc tươi, sốt đậm vị. Nên đi sớm kẻo hết chỗ.",Trang
`

const sampleMenu = `url_goc,ten_mon,gia
https://example.com/pho-hoa-pasteur,Phở tái nạm,85000
https://example.com/pho-hoa-pasteur,Phở gà,75000
https://example.com/com-tam-ba-ghien,Cơm tấm sườn bì chả,65000
https://example.com/banh-mi-huynh-hoa,Bánh mì thập cẩm,58000
https://example.com/oc-dao,Ốc hương rang muối ớt,120000
https://example.com/hai-san-nam-ri,Ghẹ rang me,250000
`

var (
	dbPath          = flag.String("db", "./places_db", "path to the place store")
	restaurantsFile = flag.String("restaurants", "", "restaurant CSV export (defaults to the embedded sample)")
	reviewsFile     = flag.String("reviews", "", "review CSV export")
	menuFile        = flag.String("menu", "", "menu CSV export")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// readerFor opens the flagged file, or falls back to the embedded sample.
func readerFor(path, sample string) (io.Reader, func(), error) {
	if path == "" {
		if sample == "" {
			return nil, func() {}, nil
		}
		return strings.NewReader(sample), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func main() {
	db, err := tastetrail.NewDatabase(*dbPath)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		panic(err)
	}
	defer pipeline.Release()

	usingSample := *restaurantsFile == ""
	restaurants, closeRestaurants, err := readerFor(*restaurantsFile, sampleRestaurants)
	if err != nil {
		panic(err)
	}
	defer closeRestaurants()

	reviewSample, menuSample := "", ""
	if usingSample {
		reviewSample, menuSample = sampleReviews, sampleMenu
	}
	reviews, closeReviews, err := readerFor(*reviewsFile, reviewSample)
	if err != nil {
		panic(err)
	}
	defer closeReviews()

	menu, closeMenu, err := readerFor(*menuFile, menuSample)
	if err != nil {
		panic(err)
	}
	defer closeMenu()

	report, err := pipeline.Run(context.Background(), ingestion.Sources{
		Restaurants: restaurants,
		Reviews:     reviews,
		Menu:        menu,
	})
	if err != nil {
		panic(err)
	}

	slog.Info("seed complete",
		"read", report.Read,
		"stored", report.Stored,
		"excluded", report.Excluded,
	)
}
