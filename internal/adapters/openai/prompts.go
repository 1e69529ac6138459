package openai

import (
	"encoding/json"
	"fmt"

	"github.com/cedricxu312/MoodTune/internal/core/domain"
)

// songsPerArtist is the per-artist quota for artist-constrained requests.
// The fallback branch truncates 16/5 to 3.
func songsPerArtist(artistCount int) int {
	switch {
	case artistCount == 9:
		return 2
	case artistCount >= 10:
		return 1
	default:
		return 16 / 5
	}
}

func moodAnalysisPrompt(mood string) string {
	return fmt.Sprintf(`You are an intelligent and empathetic music assistant. Your job is to understand the user's emotional expression, extract key emotional and thematic insights, and suggest music genres that align with the mood and context. Follow these instructions precisely:

1. Infer Mood: Analyze the input and summarize the emotional tone in 2 to 4 natural language words. Be concise but expressive (e.g., "romantic excitement", "nostalgic sadness", "peaceful joy").

2. Identify Themes: Extract 2 to 4 core themes from the input (e.g., love, ambition, longing, reflection, party vibe).

3. Recommend Genres: Suggest 2 to 4 music genres that match the mood and themes. Use your knowledge of emotional tone, genre culture, and context to make meaningful choices.

4. Always include mood, themes, and recommended_genres. Include artist only if an artist is explicitly mentioned.

5. If emotional tone is not obvious, make a best guess based on tone, wording, or known artist style.

6. If a language is mentioned, reflect that language in **ALL** of the genres. (For example, if "Chinese" is mentioned, the recommended_genres field has to include Chinese for every single genre, like "Chinese R&B" instead of "R&B".)

7. Include Artists (Conditional):
   - If the input explicitly mentions artists, include them in an "artist" field as an array.
   - **Detect artist names regardless of letter casing** (e.g., "newjeans", "NewJeans", and "NEWJEANS" should all be treated as "NewJeans").
   - Capitalize artist names in their most widely recognized form (e.g., "NewJeans", "BTS", "Taylor Swift").
   - If no artist is mentioned, omit the "artist" field entirely.

8. Contextual Genre Inference:
   - If the input mentions genres, instruments, or cultural references, reflect them in the recommended genres when appropriate.
   - Use empathy and cultural knowledge to make meaningful musical connections.

9. If an artist is mentioned, **ONLY** recommend genres that match that artist.

Output Format: Return your answer in valid JSON only, using double quotes for all keys and string values. Do not include any explanations or extra text. Do not include any text before or after the JSON. Do not wrap the response in code blocks. Only return valid JSON.

---

Example Input 1:
I just met a Korean girl and I think I had a crush on her.

Example Output 1:
{
  "mood": "romantic excitement",
  "themes": ["romantic", "joyful"],
  "recommended_genres": ["k-pop", "indie pop", "r&b"]
}

---

Example Input 2:
I just went to Twice's concert and I loved it! Hit me with some twice's songs. Also I want some exo songs too!

Example Output 2:
{
  "mood": "energized joy",
  "themes": ["excitement", "fandom", "celebration", "k-pop culture"],
  "recommended_genres": ["k-pop", "dance pop", "electropop"],
  "artist": ["Twice", "EXO"]
}

---

Now analyze the following input and respond only with a JSON object:
Input: "%s"`, mood)
}

func artistSongsPrompt(profile domain.MoodProfile) string {
	quota := songsPerArtist(len(profile.Artists))
	input, _ := json.MarshalIndent(profile, "", "  ")
	return fmt.Sprintf(`You are a music recommendation system. Your job is to recommend **real, popular songs** by specified artists that match the user's **mood**, **themes**, and **genres**.

Follow these strict rules:

1. Only recommend existing songs by the artists listed in the "artist" array.
2. Do **NOT** include songs by other artists under any circumstances. For example, do not include BTS songs under "NewJeans".
3. Every song must strongly match the mood and all listed genres.
4. If no songs match all genres, pick ones that match at least one genre AND still fit the mood.
5. Ignore the "themes" unless they help reinforce the mood or genre — do not prioritize them over mood/genre.
6. All songs must be **popular and well-known**. Avoid obscure tracks or B-sides.
7. Never guess or invent song titles. Only include songs you're certain exist and belong to the artist.
8. Do **not** include a song unless you are 100%% certain the title is correct, real, and was released by the listed artist.
9. If you are unsure whether a song belongs to the artist, do **not** include it. Never include fake or speculative songs.
10. Return **%d songs** for each of the listed artists.
11. If fewer than %d valid songs exist for any of the listed artists, return fewer. **Do not guess**.
12. The output **must be a single JSON object**. No text, no code blocks, no comments.
13. Each key must be an **artist name**, and each value must be an **array of song titles** by that artist.
14. Do **not** return an array or a numbered object like { "0": "Song A", "1": "Song B" }. That format is invalid.

---

**The only Output Format:**

{
  "<Artist Name 1>": [
    "<Song Title A>",
    "<Song Title B>"
  ],
  "<Artist Name 2>": [
    "<Song Title C>",
    "<Song Title D>"
  ]
}

---

**Example Input:**
{
  "mood": "energetic excitement",
  "themes": ["upbeat", "pop"],
  "recommended_genres": ["K-pop", "pop"],
  "artist": ["NewJeans", "EXO"]
}

**Example Output:**
{
  "NewJeans": [
    "Super Shy",
    "ETA",
    "Hype Boy",
    "OMG",
    "Attention"
  ],
  "EXO": [
    "Love Shot",
    "Call Me Baby",
    "Tempo",
    "Ko Ko Bop",
    "Power"
  ]
}

---

Now respond only with valid JSON. Analyze the following input and generate matching songs:
**Input:** %s`, quota, quota, input)
}

func genreSongsPrompt(profile domain.MoodProfile) string {
	input, _ := json.MarshalIndent(profile, "", "  ")
	return fmt.Sprintf(`You are a music recommendation system. Your job is to recommend real, popular songs based on the input mood, themes, and genres.

Follow these rules strictly:

1. Prioritize matching mood + genres, but relax genre match if too few valid songs exist.
2. Avoid recommending the same artist or song as in past outputs.
3. Max 1 track per artist.
4. Recommend up to 5 songs per genre. If fewer than 5 exist, return fewer instead of guessing or repeating.
5. Only recommend songs that exist and are well-known. Do not invent.
6. Output Format: Return your answer in valid JSON only, using double quotes for all keys and string values.

---

**Output Format:**

{
  "<genre 1>": {
    "<Artist Name A>": "<Song Title A>",
    "<Artist Name B>": "<Song Title B>"
  },
  "<genre 2>": {
    "<Artist Name C>": "<Song Title C>",
    "<Artist Name D>": "<Song Title D>"
  }
}

---

Now respond only with valid JSON. Analyze the following input and generate matching songs:
**Input:** %s`, input)
}
